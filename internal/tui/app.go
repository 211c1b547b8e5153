package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/Andersonaa12/cerebro-packing/internal/api"
	"github.com/Andersonaa12/cerebro-packing/internal/config"
	"github.com/Andersonaa12/cerebro-packing/internal/engine"
	"github.com/Andersonaa12/cerebro-packing/internal/service"
)

type screen string

const (
	screenLogin  screen = "login"
	screenList   screen = "list"
	screenDetail screen = "detail"
)

type modalState string

const (
	modalNone     modalState = ""
	modalTracking modalState = "tracking"
	modalProduct  modalState = "product"
)

// App is the single Bubble Tea model: login, process list and the
// scanning detail screen. One operator, one active order; every event
// is handled to completion before the next.
type App struct {
	ctx     context.Context
	cfg     config.Config
	auth    *service.AuthService
	packing *service.PackingService
	log     zerolog.Logger

	width  int
	height int
	screen screen
	modal  modalState

	status    string
	statusErr bool

	user api.User

	// login
	email      textinput.Model
	password   textinput.Model
	loginFocus int // 0 email, 1 password, 2 remember
	remember   bool
	loggingIn  bool

	// process list
	processes  []api.Process
	waiting    []api.PickingProcess
	procCursor int
	waitCursor int
	focusRight bool
	search     textinput.Model
	searching  bool
	query      string

	// detail
	sess       *service.Session
	scan       textinput.Model
	scanNote   string
	scanErr    bool
	gate       *engine.TrackingGate
	gateInput  textinput.Model
	gateNote   string
	confirming bool
	prodCursor int
	confPage   int
	confCursor int
}

func New(ctx context.Context, cfg config.Config, auth *service.AuthService, packing *service.PackingService, log zerolog.Logger) *App {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()
	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	search := textinput.New()
	search.Placeholder = "search by name"

	scan := textinput.New()
	scan.Placeholder = "scan SKU / bar code"
	gateInput := textinput.New()
	gateInput.Placeholder = "tracking code"

	return &App{
		ctx:       ctx,
		cfg:       cfg,
		auth:      auth,
		packing:   packing,
		log:       log.With().Str("component", "tui").Logger(),
		screen:    screenLogin,
		email:     email,
		password:  password,
		search:    search,
		scan:      scan,
		gateInput: gateInput,
		width:     120,
		height:    36,
	}
}

func (a *App) Init() tea.Cmd {
	return a.autoLoginCmd()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.height = m.Height
		return a, nil

	case tea.KeyMsg:
		switch a.screen {
		case screenLogin:
			return a.updateLogin(m)
		case screenList:
			return a.updateList(m)
		case screenDetail:
			return a.updateDetail(m)
		}

	case autoLoginMsg:
		if m.ok {
			a.user = m.user
			a.screen = screenList
			return a, a.loadProcessesCmd("")
		}
		return a, nil

	case loginMsg:
		a.loggingIn = false
		if m.err != nil {
			a.setError(m.err)
			a.password.SetValue("")
			return a, nil
		}
		a.user = m.user
		a.status = "signed in as " + a.user.Name
		a.statusErr = false
		a.screen = screenList
		return a, a.loadProcessesCmd("")

	case logoutMsg:
		a.user = api.User{}
		a.screen = screenLogin
		a.email.SetValue("")
		a.password.SetValue("")
		a.loginFocus = 0
		a.email.Focus()
		a.status = "signed out"
		a.statusErr = false
		return a, nil

	case processesMsg:
		if m.err != nil {
			a.setError(m.err)
			return a, nil
		}
		a.processes = m.processes
		a.waiting = m.waiting
		if a.procCursor >= len(a.processes) {
			a.procCursor = 0
		}
		if a.waitCursor >= len(a.waiting) {
			a.waitCursor = 0
		}
		return a, nil

	case sessionMsg:
		if m.err != nil {
			a.setError(m.err)
			return a, nil
		}
		a.sess = m.sess
		a.enterDetail()
		return a, nil

	case refreshedMsg:
		a.confirming = false
		if m.err != nil {
			a.setError(m.err)
			return a, nil
		}
		if a.sess != nil && a.sess.Finished() {
			// whole process done: back to the list like the operator
			// expects
			a.status = "process finished"
			a.statusErr = false
			a.leaveDetail()
			return a, a.loadProcessesCmd(a.query)
		}
		a.resetScanPanel()
		return a, nil

	case confirmMsg:
		if m.err != nil {
			a.confirming = false
			a.setError(m.err)
			a.scanNote = "confirmation failed, counts kept; press ctrl+t to retry"
			a.scanErr = true
			return a, a.beep()
		}
		a.status = "order confirmed"
		a.statusErr = false
		if m.out.PrintErr != nil {
			a.status = "order confirmed, label print failed"
			a.statusErr = true
		}
		return a, a.refreshCmd()

	case createdMsg:
		if m.err != nil {
			a.setError(m.err)
			return a, nil
		}
		a.status = "packing process created"
		a.statusErr = false
		return a, a.loadProcessesCmd(a.query)

	case reprintMsg:
		if m.err != nil {
			a.setError(m.err)
			return a, nil
		}
		a.status = "label sent to printer"
		a.statusErr = false
		return a, nil

	case printTestMsg:
		if m.err != nil {
			a.setError(m.err)
			return a, nil
		}
		a.status = "test page sent to printer"
		a.statusErr = false
		return a, nil

	case settingsSavedMsg:
		if m.err != nil {
			a.setError(m.err)
		}
		return a, nil
	}
	return a, nil
}

func (a *App) setError(err error) {
	a.status = err.Error()
	a.statusErr = true
	a.log.Error().Err(err).Msg("surfaced to operator")
}

// beep rings the terminal bell; only the two rejection outcomes and a
// tracking mismatch are audible, success stays silent.
func (a *App) beep() tea.Cmd {
	if !a.cfg.UI.Sound {
		return nil
	}
	return tea.Printf("\a")
}

func (a *App) enterDetail() {
	a.screen = screenDetail
	a.modal = modalNone
	a.confPage = 0
	a.confCursor = 0
	a.resetScanPanel()
}

func (a *App) leaveDetail() {
	a.screen = screenList
	a.modal = modalNone
	a.sess = nil
	a.gate = nil
	a.scan.Blur()
}

func (a *App) resetScanPanel() {
	a.scanNote = ""
	a.scanErr = false
	a.prodCursor = 0
	a.gate = nil
	a.gateNote = ""
	a.gateInput.SetValue("")
	a.scan.SetValue("")
	a.scan.Focus()
}

// commands

func (a *App) autoLoginCmd() tea.Cmd {
	return func() tea.Msg {
		user, ok := a.auth.AutoLogin(a.ctx)
		return autoLoginMsg{user: user, ok: ok}
	}
}

func (a *App) loginCmd(email, password string, remember bool) tea.Cmd {
	return func() tea.Msg {
		user, err := a.auth.Login(a.ctx, email, password, remember)
		return loginMsg{user: user, err: err}
	}
}

func (a *App) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		return logoutMsg{err: a.auth.Logout(a.ctx)}
	}
}

func (a *App) loadProcessesCmd(query string) tea.Cmd {
	return func() tea.Msg {
		procs, err := a.packing.Processes(a.ctx, query)
		if err != nil {
			return processesMsg{err: err}
		}
		waiting, err := a.packing.WaitingPicking(a.ctx)
		if err != nil {
			// the main table is still useful without the side panel
			a.log.Warn().Err(err).Msg("waiting picking list unavailable")
		}
		return processesMsg{processes: procs, waiting: waiting}
	}
}

func (a *App) openProcessCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		sess, err := a.packing.Open(a.ctx, id)
		return sessionMsg{sess: sess, err: err}
	}
}

func (a *App) refreshCmd() tea.Cmd {
	sess := a.sess
	return func() tea.Msg {
		if sess == nil {
			return refreshedMsg{}
		}
		return refreshedMsg{err: a.packing.Refresh(a.ctx, sess)}
	}
}

func (a *App) confirmCmd() tea.Cmd {
	sess := a.sess
	return func() tea.Msg {
		out, err := a.packing.ConfirmCurrent(a.ctx, sess)
		return confirmMsg{out: out, err: err}
	}
}

func (a *App) createPackingCmd(pickingID int64) tea.Cmd {
	return func() tea.Msg {
		return createdMsg{err: a.packing.CreatePacking(a.ctx, pickingID)}
	}
}

func (a *App) saveConfigCmd() tea.Cmd {
	cfg := a.cfg
	return func() tea.Msg {
		return settingsSavedMsg{err: config.Save(cfg)}
	}
}

func (a *App) printTestCmd() tea.Cmd {
	return func() tea.Msg {
		return printTestMsg{err: a.packing.PrintTest(a.ctx)}
	}
}

func (a *App) reprintCmd(orderID int64) tea.Cmd {
	return func() tea.Msg {
		return reprintMsg{orderID: orderID, err: a.packing.ReprintOrder(a.ctx, orderID)}
	}
}

func trimmed(in textinput.Model) string {
	return strings.TrimSpace(in.Value())
}
