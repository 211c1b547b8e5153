package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (a *App) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "tab", "down":
		a.loginFocus = (a.loginFocus + 1) % 3
		a.syncLoginFocus()
		return a, nil

	case "shift+tab", "up":
		a.loginFocus = (a.loginFocus + 2) % 3
		a.syncLoginFocus()
		return a, nil

	case " ":
		if a.loginFocus == 2 {
			a.remember = !a.remember
			return a, nil
		}

	case "enter":
		email, password := trimmed(a.email), a.password.Value()
		if email == "" || password == "" {
			a.status = "email and password are required"
			a.statusErr = true
			return a, nil
		}
		a.loggingIn = true
		a.status = "signing in..."
		a.statusErr = false
		return a, a.loginCmd(email, password, a.remember)
	}

	var cmd tea.Cmd
	switch a.loginFocus {
	case 0:
		a.email, cmd = a.email.Update(msg)
	case 1:
		a.password, cmd = a.password.Update(msg)
	}
	return a, cmd
}

func (a *App) syncLoginFocus() {
	a.email.Blur()
	a.password.Blur()
	switch a.loginFocus {
	case 0:
		a.email.Focus()
	case 1:
		a.password.Focus()
	}
}

func (a *App) viewLogin() string {
	check := "[ ]"
	if a.remember {
		check = "[x]"
	}
	remember := check + " remember me"
	if a.loginFocus == 2 {
		remember = cursorStyle.Render(remember)
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Cerebro Packing"),
		"",
		a.email.View(),
		a.password.View(),
		"",
		remember,
		"",
		dimStyle.Render("enter sign in · tab next field · ctrl+c quit"),
	)
	card := focusStyle.Render(form)
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, card),
		a.statusLine(),
	)
}
