package ui

import (
	"fmt"
	"strconv"
	"time"

	"hostkit/internal/config"
	"hostkit/internal/host"
	"hostkit/internal/ssh"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type HostRecord struct {
	ID   string
	Host *host.Host
}

type App struct {
	table      table.Model
	input      textinput.Model
	hosts      []HostRecord
	loader     *config.ConfigLoader
	parser     *host.Parser
	height     int
	width      int
	showHelp   bool
	showDialog bool
	consoleLog []string
}

var (
	maxConsoleLines = 5

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2dd4bf"))

	headerStyle = titleStyle.
			Align(lipgloss.Center).
			MarginBottom(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	consoleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2dd4bf")).
			Padding(0, 1)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2dd4bf")).
			Padding(1, 2)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

func convertHostsToRecords(hosts []*host.Host) []HostRecord {
	records := make([]HostRecord, len(hosts))
	for i, h := range hosts {
		records[i] = HostRecord{
			ID:   uuid.New().String(),
			Host: h,
		}
	}
	return records
}

func NewApp(loader *config.ConfigLoader, parser *host.Parser, hosts []*host.Host) *App {
	columns := []table.Column{
		{Title: "User", Width: 14},
		{Title: "Hostname", Width: 32},
		{Title: "Port", Width: 6},
		{Title: "Keys", Width: 5},
		{Title: "Auth", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	input := textinput.New()
	input.Placeholder = "user@host:port"
	input.CharLimit = 256
	input.Width = 48

	a := &App{
		table:  t,
		input:  input,
		hosts:  convertHostsToRecords(hosts),
		loader: loader,
		parser: parser,
	}
	a.updateTableRows()
	return a
}

func (a *App) updateTableRows() {
	rows := make([]table.Row, len(a.hosts))
	for i, r := range a.hosts {
		auth := "agent"
		switch {
		case r.Host.Password != "" && len(r.Host.Keys()) > 0:
			auth = "key+pass"
		case r.Host.Password != "":
			auth = "password"
		case len(r.Host.Keys()) > 0:
			auth = "key"
		}
		rows[i] = table.Row{
			r.Host.User,
			r.Host.Hostname,
			strconv.Itoa(r.Host.Port),
			strconv.Itoa(len(r.Host.Keys())),
			auth,
		}
	}
	a.table.SetRows(rows)
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	a.consoleLog = append(a.consoleLog, fmt.Sprintf("%s %s", time.Now().Format("15:04:05"), msg))
	if len(a.consoleLog) > 100 {
		a.consoleLog = a.consoleLog[len(a.consoleLog)-100:]
	}
}

func (a *App) logError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	zap.L().Warn(msg)
	a.logf("%s", errorStyle.Render("ERROR "+msg))
}

func (a *App) selected() (int, bool) {
	cursor := a.table.Cursor()
	if cursor < 0 || cursor >= len(a.hosts) {
		return 0, false
	}
	return cursor, true
}

// addHost parses spec and appends it unless an equal host is listed.
func (a *App) addHost(spec string) bool {
	v, err := host.Select(spec)
	if err != nil {
		a.logError("%v", err)
		return false
	}
	h, err := a.parser.Parse(spec)
	if err != nil {
		a.logError("%v", err)
		return false
	}

	set := host.NewSet(a.hostList()...)
	if !set.Add(h) {
		a.logError("%s is already listed", h)
		return false
	}

	a.hosts = append(a.hosts, HostRecord{ID: uuid.New().String(), Host: h})
	a.logf("Added %s (%s)", successStyle.Render(h.String()), v.Name)
	a.updateTableRows()
	a.saveConfig()
	return true
}

func (a *App) removeSelected() {
	i, ok := a.selected()
	if !ok {
		return
	}
	removed := a.hosts[i]
	a.hosts = append(a.hosts[:i], a.hosts[i+1:]...)
	a.logf("Removed %s", removed.Host)
	a.updateTableRows()
	a.saveConfig()
}

// resolveSelected applies ~/.ssh/config to the selected host. A host that
// resolves to one already listed is removed.
func (a *App) resolveSelected() {
	i, ok := a.selected()
	if !ok {
		return
	}
	h := a.hosts[i].Host
	before := h.String()
	if err := ssh.ResolveUserConfig(h); err != nil {
		a.logError("%v", err)
		return
	}
	if _, err := ssh.ClientConfig(h.NetSSHOptions()); err != nil {
		a.logError("%v", err)
		return
	}

	others := host.NewSet()
	for j, r := range a.hosts {
		if j != i {
			others.Add(r.Host)
		}
	}
	if others.Add(h) {
		a.logf("Resolved %s -> %s (%d keys)", before, h, len(h.Keys()))
	} else {
		a.hosts = append(a.hosts[:i], a.hosts[i+1:]...)
		a.logError("%s resolves to %s, which is already listed; removed", before, h)
	}
	a.updateTableRows()
	a.saveConfig()
}

func (a *App) hostList() []*host.Host {
	hosts := make([]*host.Host, len(a.hosts))
	for i, r := range a.hosts {
		hosts[i] = r.Host
	}
	return hosts
}

func (a *App) saveConfig() {
	if a.loader == nil {
		return
	}
	if err := a.loader.Save(a.hostList()); err != nil {
		a.logError("Failed to save config: %v", err)
	} else {
		a.logf("Configuration saved successfully")
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		tableHeight := a.height - maxConsoleLines - 8
		if tableHeight < 3 {
			tableHeight = 3
		}
		a.table.SetHeight(tableHeight)
		return a, nil

	case tea.KeyMsg:
		if a.showDialog {
			switch msg.String() {
			case "esc", "ctrl+c":
				a.showDialog = false
				a.input.Blur()
				return a, nil
			case "enter":
				if a.addHost(a.input.Value()) {
					a.showDialog = false
					a.input.Blur()
				}
				return a, nil
			}
			a.input, cmd = a.input.Update(msg)
			return a, cmd
		}

		if a.showHelp {
			switch msg.String() {
			case "h", "esc", "q":
				a.showHelp = false
			}
			return a, nil
		}

		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return a, tea.Quit
		case "h":
			a.showHelp = true
			return a, nil
		case "n":
			a.showDialog = true
			a.input.SetValue("")
			return a, a.input.Focus()
		case "backspace", "delete":
			a.removeSelected()
			return a, nil
		case "r":
			a.resolveSelected()
			return a, nil
		}
	}

	a.table, cmd = a.table.Update(msg)
	return a, cmd
}

func (a *App) consoleView() string {
	lines := a.consoleLog
	if len(lines) > maxConsoleLines {
		lines = lines[len(lines)-maxConsoleLines:]
	}
	content := ""
	for i, line := range lines {
		if i > 0 {
			content += "\n"
		}
		content += line
	}
	if content == "" {
		content = controlsStyle.Render("no messages")
	}
	width := a.width - 4
	if width < 20 {
		width = 20
	}
	return consoleStyle.Width(width).Render(content)
}

func (a *App) View() string {
	if a.showHelp {
		return a.helpView()
	}

	if a.showDialog {
		content := titleStyle.Render("Add host") + "\n\n"
		content += a.input.View() + "\n\n"
		if spec := a.input.Value(); spec != "" {
			if v, err := host.Select(spec); err == nil {
				content += controlsStyle.Render("format: "+v.Name) + "\n"
			} else {
				content += errorStyle.Render("no matching format") + "\n"
			}
		}
		content += controlsStyle.Render("enter: add • esc: cancel")

		dialog := dialogStyle.Width(60).Render(content)
		return lipgloss.Place(a.width, a.height,
			lipgloss.Center, lipgloss.Center,
			dialog)
	}

	title := "hostkit"
	if a.loader != nil {
		title += " - " + a.loader.Path()
	}
	s := headerStyle.Width(a.width).Render(title) + "\n"
	s += a.table.View() + "\n"
	s += a.consoleView() + "\n"
	s += controlsStyle.Render("n: new • backspace: delete • r: resolve ssh config • h: help • q: quit")
	return s
}
