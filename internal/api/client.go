package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrSessionExpired means the token was rejected and no stored
// credentials could re-establish it; the caller must log in again.
var ErrSessionExpired = errors.New("session expired")

// Error is a non-2xx or success=false backend response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("api: request failed (status %d)", e.Status)
}

// Client talks to the packing backend. It holds the bearer token and,
// when credentials were remembered, transparently re-logs in once on a
// 401 before retrying the request.
type Client struct {
	base string
	http *http.Client
	log  zerolog.Logger

	mu       sync.Mutex
	token    string
	email    string
	password string
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
		log:  log.With().Str("component", "api").Logger(),
	}
}

// SetToken installs a previously stored token, e.g. restored from the
// credentials file at startup.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Login authenticates and remembers the credentials for automatic
// re-login on token expiry.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	body, err := c.post(ctx, routeLogin, map[string]string{"email": email, "password": password}, false)
	if err != nil {
		return LoginResponse{}, err
	}
	var lr LoginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return LoginResponse{}, fmt.Errorf("decode login response: %w", err)
	}
	if lr.AccessToken == "" {
		return LoginResponse{}, &Error{Status: http.StatusUnauthorized, Message: "no access token in response"}
	}
	c.mu.Lock()
	c.token = lr.AccessToken
	c.email = email
	c.password = password
	c.mu.Unlock()
	c.log.Info().Str("user", lr.User.Email).Msg("logged in")
	return lr, nil
}

// Logout invalidates the token server-side and clears local state.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.post(ctx, routeLogout, nil, true)
	c.mu.Lock()
	c.token = ""
	c.email = ""
	c.password = ""
	c.mu.Unlock()
	return err
}

// PackingProcesses lists packing processes, optionally filtered.
func (c *Client) PackingProcesses(ctx context.Context, query string) ([]Process, error) {
	route := routePackingList
	if query != "" {
		route += "?q=" + url.QueryEscape(query)
	}
	body, err := c.get(ctx, route)
	if err != nil {
		return nil, err
	}
	env, err := unwrap(body)
	if err != nil {
		return nil, err
	}
	var data processListData
	if err := json.Unmarshal(env, &data); err != nil {
		return nil, fmt.Errorf("decode process list: %w", err)
	}
	return data.PackingProcesses.Data, nil
}

// WaitingPickingProcesses lists picking processes ready to become
// packing processes.
func (c *Client) WaitingPickingProcesses(ctx context.Context) ([]PickingProcess, error) {
	body, err := c.get(ctx, routePackingWaiting)
	if err != nil {
		return nil, err
	}
	env, err := unwrap(body)
	if err != nil {
		return nil, err
	}
	var data pickingListData
	if err := json.Unmarshal(env, &data); err != nil {
		return nil, fmt.Errorf("decode picking list: %w", err)
	}
	return data.PickingProcesses.Data, nil
}

// CreatePacking turns a waiting picking process into a packing process.
func (c *Client) CreatePacking(ctx context.Context, pickingID int64) error {
	body, err := c.post(ctx, routePackingCreate(pickingID), struct{}{}, true)
	if err != nil {
		return err
	}
	_, err = unwrap(body)
	return err
}

// ProcessDetail fetches the full state of one packing process.
func (c *Client) ProcessDetail(ctx context.Context, processID int64) (ProcessDetail, error) {
	body, err := c.get(ctx, routePackingView(processID))
	if err != nil {
		return ProcessDetail{}, err
	}
	env, err := unwrap(body)
	if err != nil {
		return ProcessDetail{}, err
	}
	var data processDetailData
	if err := json.Unmarshal(env, &data); err != nil {
		return ProcessDetail{}, fmt.Errorf("decode process detail: %w", err)
	}
	detail := ProcessDetail{
		Process:      data.Process.Process,
		Orders:       data.Process.PackingProcessOrders,
		PendingOrder: data.PendingProcessOrder,
	}
	// confirmedOrders arrives as a JSON object keyed by process-order
	// id; map iteration would reshuffle the table on every fetch, so
	// restore a stable numeric-key order.
	keys := make([]string, 0, len(data.ConfirmedOrders))
	for k := range data.ConfirmedOrders {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.ParseInt(keys[i], 10, 64)
		b, errB := strconv.ParseInt(keys[j], 10, 64)
		if errA != nil || errB != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})
	for _, k := range keys {
		detail.ConfirmedOrders = append(detail.ConfirmedOrders, data.ConfirmedOrders[k])
	}
	return detail, nil
}

// ConfirmOrder submits the scanned quantities for a completed order.
// Only called after the tracking gate has passed.
func (c *Client) ConfirmOrder(ctx context.Context, orderID, processID int64, req ConfirmRequest) (ConfirmResult, error) {
	body, err := c.post(ctx, routePackingConfirm(orderID, processID), req, true)
	if err != nil {
		return ConfirmResult{}, err
	}
	var data confirmData
	if err := json.Unmarshal(body, &data); err != nil {
		return ConfirmResult{}, fmt.Errorf("decode confirm response: %w", err)
	}
	if !data.Success {
		return ConfirmResult{}, &Error{Status: http.StatusOK, Message: "order confirmation rejected"}
	}
	return ConfirmResult{LabelURL: labelURL(data.LabelURL)}, nil
}

// OrderLabel fetches the label URL for reprinting a confirmed order.
func (c *Client) OrderLabel(ctx context.Context, orderID int64) (string, error) {
	body, err := c.get(ctx, routePrintOrder(orderID))
	if err != nil {
		return "", err
	}
	var data confirmData
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("decode label response: %w", err)
	}
	if !data.Success {
		return "", &Error{Status: http.StatusOK, Message: "no label for order"}
	}
	u := labelURL(data.LabelURL)
	if u == "" {
		return "", &Error{Status: http.StatusOK, Message: "label url missing from response"}
	}
	return u, nil
}

// PrintTest asks the backend for a test print job.
func (c *Client) PrintTest(ctx context.Context) error {
	_, err := c.post(ctx, routePackingPrint, struct{}{}, true)
	return err
}

// labelURL tolerates the backend's 0/null sentinel for "process
// finished, nothing left to print".
func labelURL(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func unwrap(body []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response envelope: %w", err)
	}
	if !env.Success {
		return nil, &Error{Status: http.StatusOK, Message: env.Message}
	}
	return env.Data, nil
}

func (c *Client) get(ctx context.Context, route string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, route, nil, true)
}

func (c *Client) post(ctx context.Context, route string, payload any, auth bool) ([]byte, error) {
	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}
	return c.do(ctx, http.MethodPost, route, body, auth)
}

func (c *Client) do(ctx context.Context, method, route string, body []byte, auth bool) ([]byte, error) {
	resp, err := c.send(ctx, method, route, body, auth)
	if err != nil {
		return nil, err
	}
	if resp.status == http.StatusUnauthorized && auth {
		if !c.relogin(ctx) {
			return nil, ErrSessionExpired
		}
		if resp, err = c.send(ctx, method, route, body, auth); err != nil {
			return nil, err
		}
	}
	if resp.status < 200 || resp.status >= 300 {
		c.log.Warn().Str("route", route).Int("status", resp.status).Msg("request failed")
		return nil, &Error{Status: resp.status}
	}
	return resp.body, nil
}

type response struct {
	status int
	body   []byte
}

func (c *Client) send(ctx context.Context, method, route string, body []byte, auth bool) (response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+route, rd)
	if err != nil {
		return response{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if auth {
		if tok := c.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	res, err := c.http.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("%s %s: %w", method, route, err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return response{}, fmt.Errorf("read response: %w", err)
	}
	c.log.Debug().Str("route", route).Int("status", res.StatusCode).Msg("request")
	return response{status: res.StatusCode, body: data}, nil
}

// relogin retries authentication with remembered credentials.
func (c *Client) relogin(ctx context.Context) bool {
	c.mu.Lock()
	email, password := c.email, c.password
	c.mu.Unlock()
	if email == "" || password == "" {
		return false
	}
	c.log.Info().Msg("token rejected, attempting automatic re-login")
	_, err := c.Login(ctx, email, password)
	return err == nil
}
