package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/courtdesk/internal/guard"
	"github.com/felixgeelhaar/courtdesk/internal/toast"
)

// View renders the TUI (required by Bubble Tea)
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderBreadcrumbs())
	b.WriteString("\n\n")

	page := m.renderPage()
	if menu := m.renderMenu(); menu != "" {
		page = lipgloss.JoinHorizontal(lipgloss.Top, menu, "  ", page)
	}
	b.WriteString(page)
	b.WriteString("\n")

	if toasts := m.renderToasts(); toasts != "" {
		b.WriteString("\n")
		b.WriteString(toasts)
	}

	b.WriteString("\n")
	b.WriteString(m.renderFeedback())
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.renderHelpLine())

	return b.String()
}

func (m Model) renderHeader() string {
	title := m.styles.Title.Render("courtdesk")
	u := m.view.User
	if u == nil {
		return title + m.styles.Subtitle.Render("  not signed in")
	}
	return title + m.styles.Subtitle.Render(fmt.Sprintf("  %s · %s", u.DisplayName(), u.Role.Label()))
}

func (m Model) renderBreadcrumbs() string {
	if len(m.view.Breadcrumbs) == 0 {
		return m.styles.Muted.Render("/")
	}
	parts := make([]string, len(m.view.Breadcrumbs))
	for i, c := range m.view.Breadcrumbs {
		if c.Clickable {
			parts[i] = m.styles.Crumb.Render(c.Label)
		} else {
			parts[i] = m.styles.Highlight.Render(c.Label)
		}
	}
	return strings.Join(parts, m.styles.Muted.Render(" › "))
}

func (m Model) renderMenu() string {
	if len(m.view.Menu) == 0 {
		return ""
	}
	lines := make([]string, len(m.view.Menu))
	for i, item := range m.view.Menu {
		label := fmt.Sprintf("%d %s", i+1, item.Label)
		if item.Active {
			lines[i] = m.styles.Active.Render(label)
		} else {
			lines[i] = " " + label
		}
	}
	return m.styles.Border.Render(strings.Join(lines, "\n"))
}

func (m Model) renderPage() string {
	var b strings.Builder
	b.WriteString(m.styles.Highlight.Render(m.view.Path))
	if rt := m.view.Decision.Route; rt != nil && rt.Pattern != m.view.Path {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("route " + rt.Pattern))
	}
	if m.view.Redirected {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("redirected from %s (%s)", m.view.RequestedPath, m.view.RedirectReason)))
	}
	params := m.view.Decision.Params
	for _, k := range slices.Sorted(maps.Keys(params)) {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render(k+": ") + params[k])
	}
	if m.view.Path == guard.LoginPath {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Muted.Render("Run 'courtdesk login' to sign in."))
	}
	return m.styles.Border.Render(b.String())
}

func (m Model) renderToasts() string {
	var b strings.Builder
	for _, t := range m.view.Toasts {
		b.WriteString(m.severityStyle(t.Severity).Render(fmt.Sprintf("[%d] %s", t.ID, severityIcon(t.Severity))))
		if t.Title != "" {
			b.WriteString(" " + t.Title)
		}
		if t.Message != "" {
			b.WriteString(m.styles.Muted.Render("  " + t.Message))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) severityStyle(s toast.Severity) lipgloss.Style {
	switch s {
	case toast.Success:
		return m.styles.Success
	case toast.Error:
		return m.styles.Error
	case toast.Warning:
		return m.styles.Warning
	default:
		return m.styles.Info
	}
}

func severityIcon(s toast.Severity) string {
	switch s {
	case toast.Success:
		return "✓"
	case toast.Error:
		return "✗"
	case toast.Warning:
		return "!"
	default:
		return "i"
	}
}

func (m Model) renderFeedback() string {
	switch {
	case m.err != "":
		return m.styles.Error.Render(m.err) + "\n"
	case m.status != "":
		return m.styles.Muted.Render(m.status) + "\n"
	}
	return ""
}

func (m Model) renderHelpLine() string {
	keys := []struct{ key, desc string }{
		{"enter", "go"},
		{":dismiss", "close toast"},
		{":logout", "sign out"},
		{"esc", "quit"},
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = m.styles.Key.Render(k.key) + " " + m.styles.KeyDesc.Render(k.desc)
	}
	return m.styles.Help.Render(strings.Join(parts, "  "))
}
