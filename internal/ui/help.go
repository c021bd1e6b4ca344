package ui

import "github.com/charmbracelet/lipgloss"

var helpStyle = lipgloss.NewStyle().
	Align(lipgloss.Left).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#2dd4bf")).
	Padding(1, 2)

func (a *App) helpView() string {
	help := `Keyboard Controls:

Navigation
  ↑/↓: Select host
  h: Toggle help
  q/esc: Quit

Management
  n: Add host from a host string
  backspace: Delete selected host
  r: Apply ~/.ssh/config to selected host

Host strings
  host              current login, port 22
  host:port         current login
  user@host         port 22
  user@host:port
  [ipv6]:port       current login

Press h or esc to close help`

	helpBox := helpStyle.Width(60).Render(help)
	return lipgloss.Place(a.width, a.height,
		lipgloss.Center, lipgloss.Center,
		helpBox)
}
