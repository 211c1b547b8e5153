package tui

func (a *App) View() string {
	switch a.screen {
	case screenLogin:
		return a.viewLogin()
	case screenList:
		return a.viewList()
	case screenDetail:
		return a.viewDetail()
	}
	return ""
}

func (a *App) statusLine() string {
	if a.status == "" {
		return ""
	}
	if a.statusErr {
		return errorStyle.Render(a.status)
	}
	return statusStyle.Render(a.status)
}
