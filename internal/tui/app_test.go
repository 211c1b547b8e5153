package tui

import (
	"context"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Andersonaa12/cerebro-packing/internal/api"
	"github.com/Andersonaa12/cerebro-packing/internal/config"
	"github.com/Andersonaa12/cerebro-packing/internal/engine"
)

func testApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Config{}
	cfg.UI.PageSize = 10
	return New(context.Background(), cfg, nil, nil, zerolog.Nop())
}

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLoginRequiresBothFields(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	a.email.SetValue("op@example.com")
	_, cmd := a.updateLogin(key(tea.KeyEnter))
	require.Nil(t, cmd)
	require.True(t, a.statusErr)
	require.False(t, a.loggingIn)
}

func TestLoginFocusCycleAndRemember(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	require.Equal(t, 0, a.loginFocus)
	a.updateLogin(key(tea.KeyTab))
	require.Equal(t, 1, a.loginFocus)
	a.updateLogin(key(tea.KeyTab))
	require.Equal(t, 2, a.loginFocus)

	require.False(t, a.remember)
	a.updateLogin(key(tea.KeySpace))
	require.True(t, a.remember)

	a.updateLogin(key(tea.KeyTab))
	require.Equal(t, 0, a.loginFocus)
	require.True(t, a.email.Focused())
}

func TestListCursorStaysInBounds(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	a.screen = screenList
	a.Update(processesMsg{processes: []api.Process{
		{ID: 1, Name: "Morning batch"},
		{ID: 2, Name: "Afternoon batch"},
	}})

	a.updateList(key(tea.KeyUp))
	require.Equal(t, 0, a.procCursor)
	a.updateList(key(tea.KeyDown))
	require.Equal(t, 1, a.procCursor)
	a.updateList(key(tea.KeyDown))
	require.Equal(t, 1, a.procCursor)
}

func TestListSearchSetsQuery(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	a.screen = screenList
	a.updateList(runes("/"))
	require.True(t, a.searching)

	a.updateList(runes("batch"))
	_, cmd := a.updateList(key(tea.KeyEnter))
	require.NotNil(t, cmd)
	require.False(t, a.searching)
	require.Equal(t, "batch", a.query)
}

func TestTrackingGateExactMatchOnly(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	a.screen = screenDetail
	a.modal = modalTracking
	a.gate = engine.NewTrackingGate("ABC123")

	a.gateInput.SetValue("abc123")
	a.updateTrackingModal(key(tea.KeyEnter))
	require.Equal(t, modalTracking, a.modal)
	require.NotEmpty(t, a.gateNote)
	require.Empty(t, a.gateInput.Value())

	a.gateInput.SetValue("ABC123 ")
	a.updateTrackingModal(key(tea.KeyEnter))
	require.Equal(t, modalTracking, a.modal)
	require.Equal(t, 2, a.gate.Attempts())

	a.gateInput.SetValue("ABC123")
	a.updateTrackingModal(key(tea.KeyEnter))
	require.Equal(t, modalNone, a.modal)
	require.True(t, a.confirming)
}

func TestTrackingGateAbandon(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	a.screen = screenDetail
	a.modal = modalTracking
	a.gate = engine.NewTrackingGate("ABC123")

	a.updateTrackingModal(key(tea.KeyEsc))
	require.Equal(t, modalNone, a.modal)
	require.Nil(t, a.gate)
	require.False(t, a.confirming)
	require.True(t, a.scanErr)
}

func TestSoundToggleIsPersisted(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	a.screen = screenList
	a.cfg.UI.Sound = true

	_, cmd := a.updateList(runes("s"))
	require.False(t, a.cfg.UI.Sound)
	require.Equal(t, "scan sound off", a.status)
	require.NotNil(t, cmd, "toggle saves the preference")

	_, _ = a.updateList(runes("s"))
	require.True(t, a.cfg.UI.Sound)
	require.Equal(t, "scan sound on", a.status)
}

func TestClip(t *testing.T) {
	t.Parallel()

	require.Equal(t, "short", clip("short", 10))
	require.Equal(t, "long na…", clip("long name here", 8))

	// accented names must never be cut mid-rune
	require.Equal(t, "Pantalón", clip("Pantalón", 8))
	require.Equal(t, "Pantaló…", clip("Pantalón rojo", 8))
	require.True(t, utf8.ValidString(clip("Muñoz Peña", 6)))
	require.Equal(t, "Muñoz…", clip("Muñoz Peña", 6))
}
