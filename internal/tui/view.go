package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tareas/internal/screens"
	"tareas/internal/ui"
)

var (
	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")).MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).MarginTop(1)
	frameStyle    = lipgloss.NewStyle().Padding(1, 2)

	noticeStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			Padding(1, 2)
	errorBorder = lipgloss.Color("#EF4444")
	infoBorder  = lipgloss.Color("#10B981")
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.notice != nil {
		return frameStyle.Render(m.viewNotice(*m.notice))
	}

	var body string
	switch m.app.Router.Current() {
	case screens.SignIn:
		body = m.viewSignIn()
	case screens.SignUp:
		body = m.viewSignUp()
	default:
		body = m.viewMain()
	}
	if m.busy {
		body += "\n" + mutedStyle.Render("cargando…")
	}
	return frameStyle.Render(body)
}

func (m *Model) viewNotice(n ui.Notice) string {
	border := infoBorder
	if n.Kind == ui.Error {
		border = errorBorder
	}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(n.Title))
	if n.Message != "" {
		b.WriteString("\n\n" + n.Message)
	}
	b.WriteString("\n\n" + mutedStyle.Render("[enter] continuar"))

	style := noticeStyle.BorderForeground(border)
	if m.width > 10 {
		style = style.Width(min(m.width-10, 60))
	}
	return style.Render(b.String())
}

func (m *Model) viewSignIn() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(ui.SignInHeading) + "\n")
	b.WriteString(labelStyle.Render(ui.EmailLabel) + "\n" + m.emailIn.View() + "\n\n")
	b.WriteString(labelStyle.Render(ui.PasswordLabel) + "\n" + m.passIn.View() + "\n\n")
	b.WriteString(fmt.Sprintf("[enter] %s\n", ui.SignInButton))
	b.WriteString(mutedStyle.Render("[ctrl+t] " + ui.SignInLink))
	b.WriteString(helpStyle.Render("\ntab cambiar campo · ctrl+c salir"))
	return b.String()
}

func (m *Model) viewSignUp() string {
	f := m.app.SignUp.Form()
	var b strings.Builder
	b.WriteString(headingStyle.Render(ui.SignUpHeading) + "\n")
	b.WriteString(labelStyle.Render(ui.EmailLabel) + "\n" + m.emailIn.View() + "\n")
	if f.EmailError != "" {
		b.WriteString(errorStyle.Render(f.EmailError) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(ui.PasswordLabel) + "\n" + m.passIn.View() + "\n")
	if f.PasswordError != "" {
		b.WriteString(errorStyle.Render(f.PasswordError) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("[enter] %s\n", ui.SignUpButton))
	b.WriteString(mutedStyle.Render("[ctrl+t] " + ui.SignUpLink))
	b.WriteString(helpStyle.Render("\ntab cambiar campo · ctrl+c salir"))
	return b.String()
}

func (m *Model) viewMain() string {
	v := m.app.Tasks.View()
	var b strings.Builder
	if !v.HasSession {
		b.WriteString(ui.NoSessionPrompt + "\n\n")
		b.WriteString(fmt.Sprintf("[enter] %s", ui.NoSessionAction))
		b.WriteString(helpStyle.Render("\nctrl+c salir"))
		return b.String()
	}

	b.WriteString(headingStyle.Render(ui.MainHeading) + "\n")
	b.WriteString(ui.WelcomePrefix + v.Email + "\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%s%d", ui.CounterPrefix, v.Count)) + "\n\n")
	b.WriteString(m.taskIn.View() + "\n\n")

	if len(v.Rows) == 0 {
		b.WriteString(v.Empty + "\n\n")
		b.WriteString(labelStyle.Render(ui.SuggestionsTitle) + "\n")
		for _, s := range v.Suggestions {
			b.WriteString("  " + mutedStyle.Render(s) + "\n")
		}
	}
	for i, row := range v.Rows {
		line := fmt.Sprintf("%s %s", row.Icon, row.Text)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("› "+line) + "  " + ui.DeleteIcon + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}

	b.WriteString(helpStyle.Render(fmt.Sprintf("\nenter añadir · ↑/↓ mover · ctrl+d borrar · ctrl+o %s · ctrl+c salir", ui.SignOutButton)))
	return b.String()
}
