package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second, zerolog.Nop())
}

func TestLoginStoresToken(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "op@example.com", creds["email"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-1",
			"token_type":   "bearer",
			"expires_in":   86400,
			"user":         map[string]any{"id": 7, "name": "Almacen", "email": "op@example.com"},
		})
	}))

	lr, err := c.Login(context.Background(), "op@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "tok-1", c.Token())
	require.Equal(t, int64(7), lr.User.ID)
}

func TestAutoReloginOn401(t *testing.T) {
	t.Parallel()

	var calls []string
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "login")
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "fresh"})
	})
	mux.HandleFunc("/packing/process", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "list:"+r.Header.Get("Authorization"))
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"packing_processes": map[string]any{"data": []map[string]any{{"id": 1, "name": "P1"}}},
			},
		})
	})
	c := testClient(t, mux)

	// Seed remembered credentials with a stale token.
	_, err := c.Login(context.Background(), "op@example.com", "secret")
	require.NoError(t, err)
	c.SetToken("stale")

	procs, err := c.PackingProcesses(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, procs, 1)
	require.Equal(t, "P1", procs[0].Name)
	require.Equal(t, []string{"login", "list:Bearer stale", "login", "list:Bearer fresh"}, calls)
}

func TestSessionExpiredWithoutCredentials(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	c.SetToken("stale")

	_, err := c.PackingProcesses(context.Background(), "")
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestProcessDetailDecoding(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"success": true,
		"data": map[string]any{
			"process": map[string]any{
				"id":         5,
				"name":       "Packing 5",
				"started_at": "2026-03-05 09:00:00",
				"packing_process_orders": []map[string]any{
					{"id": 11, "finished_at": "2026-03-05 10:00:00"},
					{"id": 12},
				},
			},
			"pendingProcessOrder": map[string]any{
				"id": 12,
				"order": map[string]any{
					"id": 900, "name": "Cliente", "tracking_code": "TRK900",
				},
				"packing_process_order_product": []map[string]any{
					{"quantity": 2, "product": map[string]any{"id": 31, "sku": "A1", "bar_code": "111"}},
				},
			},
			"confirmedOrders": map[string]any{
				"11": map[string]any{
					"order_id":    890,
					"products":    []map[string]any{{"name": "Camisa", "quantity": 2}},
					"started_at":  "2026-03-05 09:30:00",
					"finished_at": "2026-03-05 10:00:00",
				},
			},
		},
	}
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/packing/process/view/5", r.URL.Path)
		_ = json.NewEncoder(w).Encode(payload)
	}))

	detail, err := c.ProcessDetail(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, int64(5), detail.Process.ID)
	require.Len(t, detail.Orders, 2)
	require.NotNil(t, detail.Orders[0].FinishedAt)
	require.Nil(t, detail.Orders[1].FinishedAt)
	require.NotNil(t, detail.PendingOrder)
	require.Equal(t, "TRK900", detail.PendingOrder.Order.TrackingCode)
	require.Len(t, detail.PendingOrder.Lines, 1)
	require.Equal(t, int64(31), detail.PendingOrder.Lines[0].Product.ID)
	require.Len(t, detail.ConfirmedOrders, 1)
	require.Equal(t, int64(890), detail.ConfirmedOrders[0].OrderID)
}

func TestProcessDetailConfirmedOrdersStableOrder(t *testing.T) {
	t.Parallel()

	confirmed := map[string]any{}
	for i, id := range []int{9, 10, 11, 12, 108, 111} {
		confirmed[strconv.Itoa(id)] = map[string]any{
			"order_id":    900 + i,
			"finished_at": "2026-03-05 10:00:00",
		}
	}
	payload := map[string]any{
		"success": true,
		"data": map[string]any{
			"process":         map[string]any{"id": 5, "name": "Packing 5"},
			"confirmedOrders": confirmed,
		},
	}
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(payload)
	}))

	first, err := c.ProcessDetail(context.Background(), 5)
	require.NoError(t, err)

	// numeric key order, not lexicographic ("9" before "108")
	var ids []int64
	for _, co := range first.ConfirmedOrders {
		ids = append(ids, co.OrderID)
	}
	require.Equal(t, []int64{900, 901, 902, 903, 904, 905}, ids)

	// identical fetches must not reshuffle the table
	for i := 0; i < 10; i++ {
		again, err := c.ProcessDetail(context.Background(), 5)
		require.NoError(t, err)
		require.Equal(t, first.ConfirmedOrders, again.ConfirmedOrders)
	}
}

func TestConfirmOrder(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/packing/process/confirm/12/5", r.URL.Path)
		var req ConfirmRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, []CompletedProduct{{ProductID: 31, Quantity: 2}}, req.CompletedProducts)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "label_url": "http://labels/12.pdf"})
	}))

	res, err := c.ConfirmOrder(context.Background(), 12, 5, ConfirmRequest{
		CompletedProducts: []CompletedProduct{{ProductID: 31, Quantity: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, "http://labels/12.pdf", res.LabelURL)
}

func TestConfirmOrderZeroLabelMeansFinished(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "label_url": 0})
	}))

	res, err := c.ConfirmOrder(context.Background(), 12, 5, ConfirmRequest{})
	require.NoError(t, err)
	require.Empty(t, res.LabelURL)
}

func TestConfirmOrderRejected(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false})
	}))

	_, err := c.ConfirmOrder(context.Background(), 12, 5, ConfirmRequest{})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
}

func TestEnvelopeFailureSurfacesMessage(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "process not found"})
	}))

	_, err := c.ProcessDetail(context.Background(), 99)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Contains(t, apiErr.Message, "process not found")
}
