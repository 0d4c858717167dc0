package output_test

import (
	"bytes"
	"testing"

	"tareas/internal/output"
	"tareas/internal/tasklist"
	"tareas/internal/testutil"
	"tareas/internal/ui"
)

func TestFormatMain_Tasks(t *testing.T) {
	var buf bytes.Buffer
	output.FormatMain(&buf, tasklist.View{
		HasSession: true,
		Email:      "a@b.com",
		Count:      2,
		Rows: []tasklist.Row{
			{ID: "1", Icon: ui.CompletionIcon, Text: "Buy milk"},
			{ID: "2", Icon: ui.CompletionIcon, Text: "Walk dog\nand cat"},
		},
	})
	testutil.Golden(t, "main_tasks", buf.String())
}

func TestFormatMain_Empty(t *testing.T) {
	var buf bytes.Buffer
	output.FormatMain(&buf, tasklist.View{
		HasSession:  true,
		Email:       "a@b.com",
		Empty:       ui.EmptyText,
		Suggestions: ui.Suggestions,
	})
	testutil.Golden(t, "main_empty", buf.String())
}

func TestFormatMain_NoSession(t *testing.T) {
	var buf bytes.Buffer
	output.FormatMain(&buf, tasklist.View{})
	testutil.Golden(t, "main_no_session", buf.String())
}

func TestFormatTask(t *testing.T) {
	tests := []struct {
		num  int
		text string
		want string
	}{
		{1, "Buy milk", "   1  ✔ Buy milk\n"},
		{12, "  ", "  12  ✔ (sin título)\n"},
		{1000, "a\r\nb", "1000  ✔ a  b\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		output.FormatTask(&buf, tt.num, tasklist.Row{Icon: ui.CompletionIcon, Text: tt.text})
		if got := buf.String(); got != tt.want {
			t.Errorf("FormatTask(%d, %q) = %q, want %q", tt.num, tt.text, got, tt.want)
		}
	}
}

func TestFormatTaskID(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTaskID(&buf, tasklist.Row{ID: "abc", Text: "X"})
	if got := buf.String(); got != "abc\tX\n" {
		t.Errorf("FormatTaskID = %q", got)
	}
}
