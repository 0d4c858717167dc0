// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"tareas/internal/tasklist"
	"tareas/internal/ui"
)

// SignInHint tells signed-out CLI users how to act on the prompt.
const SignInHint = "tareas signin --email <email> --password <contraseña>"

// FormatMain renders the main screen: the no-session prompt, or the header,
// counter and either the task rows or the empty state.
func FormatMain(w io.Writer, v tasklist.View) {
	if !v.HasSession {
		fmt.Fprintln(w, ui.NoSessionPrompt)
		fmt.Fprintf(w, "%s: %s\n", ui.NoSessionAction, SignInHint)
		return
	}

	fmt.Fprintln(w, ui.MainHeading)
	fmt.Fprintln(w, ui.WelcomePrefix+v.Email)
	fmt.Fprintf(w, "%s%d\n", ui.CounterPrefix, v.Count)

	if len(v.Rows) == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, v.Empty)
		fmt.Fprintln(w, ui.SuggestionsTitle)
		for _, s := range v.Suggestions {
			fmt.Fprintf(w, "  %s\n", s)
		}
		return
	}

	fmt.Fprintln(w)
	for i, row := range v.Rows {
		FormatTask(w, i+1, row)
	}
}

// FormatTask formats a task line.
// Format: "{N:>4}  {ICON} {TEXT}\n" (4-wide right-aligned number, two spaces, icon, text)
func FormatTask(w io.Writer, num int, row tasklist.Row) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, row.Icon, normalizeText(row.Text))
}

// FormatTaskID formats a task line with its ID, for scripting.
// Format: "{ID}\t{TEXT}\n"
func FormatTaskID(w io.Writer, row tasklist.Row) {
	fmt.Fprintf(w, "%s\t%s\n", row.ID, normalizeText(row.Text))
}

// normalizeText normalizes a task text for display.
// - Empty or whitespace-only texts become "(sin título)"
// - Newlines are replaced with spaces
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(sin título)"
	}
	return text
}
