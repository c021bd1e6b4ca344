package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"hostkit/internal/host"

	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2dd4bf")).
			Width(10)

	variantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Italic(true)

	reportStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2dd4bf")).
			Padding(0, 1)
)

// Report is what `hostkit parse` prints for one spec.
type Report struct {
	Spec     string              `json:"spec"`
	Variant  string              `json:"variant,omitempty"`
	Host     string              `json:"host,omitempty"`
	Hostname string              `json:"hostname,omitempty"`
	Options  *host.NetSSHOptions `json:"options,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// NewReport parses spec with p. Failures are recorded in the report, not
// returned.
func NewReport(p *host.Parser, spec string) Report {
	r := Report{Spec: spec}
	v, err := host.Select(spec)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Variant = v.Name

	h, err := p.Parse(spec)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	return ReportFor(spec, v.Name, h)
}

func ReportFor(spec, variant string, h *host.Host) Report {
	opts := h.NetSSHOptions()
	return Report{
		Spec:     spec,
		Variant:  variant,
		Host:     h.String(),
		Hostname: h.Hostname,
		Options:  &opts,
	}
}

func (r Report) Failed() bool {
	return r.Error != ""
}

func (r Report) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(r.Spec))
	if r.Variant != "" {
		b.WriteString(" " + variantStyle.Render(r.Variant))
	}
	b.WriteString("\n")

	if r.Failed() {
		b.WriteString(errorStyle.Render(r.Error))
		return reportStyle.Render(b.String())
	}

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + value + "\n")
	}
	row("canonical", successStyle.Render(r.Host))
	row("user", r.Options.User)
	row("hostname", r.Hostname)
	row("port", fmt.Sprintf("%d", r.Options.Port))
	if len(r.Options.Keys) > 0 {
		row("keys", strings.Join(r.Options.Keys, ", "))
	}
	if r.Options.Password != "" {
		row("password", "********")
	}
	return reportStyle.Render(strings.TrimSuffix(b.String(), "\n"))
}

// WriteReports prints reports styled, or as a JSON array when asJSON is set.
func WriteReports(w io.Writer, reports []Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	for _, r := range reports {
		if _, err := fmt.Fprintln(w, r.View()); err != nil {
			return err
		}
	}
	return nil
}
