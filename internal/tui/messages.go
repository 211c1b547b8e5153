package tui

import (
	"github.com/Andersonaa12/cerebro-packing/internal/api"
	"github.com/Andersonaa12/cerebro-packing/internal/service"
)

type autoLoginMsg struct {
	user api.User
	ok   bool
}

type loginMsg struct {
	user api.User
	err  error
}

type logoutMsg struct{ err error }

type processesMsg struct {
	processes []api.Process
	waiting   []api.PickingProcess
	err       error
}

type sessionMsg struct {
	sess *service.Session
	err  error
}

type refreshedMsg struct{ err error }

type confirmMsg struct {
	out service.ConfirmOutcome
	err error
}

type createdMsg struct{ err error }

type reprintMsg struct {
	orderID int64
	err     error
}

type printTestMsg struct{ err error }

type settingsSavedMsg struct{ err error }
