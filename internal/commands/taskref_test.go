package commands

import (
	"errors"
	"testing"

	"tareas/internal/tasklist"
)

func TestParseTaskNumber(t *testing.T) {
	n, err := ParseTaskNumber([]string{"12"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 12 {
		t.Errorf("expected 12, got %d", n)
	}
}

func TestParseTaskNumber_Errors(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"a1"}, "invalid task reference: a1"},
		{[]string{"-1"}, "invalid task reference: -1"},
		{[]string{"1.5"}, "invalid task reference: 1.5"},
		{[]string{"1", "2"}, "unexpected argument: 2"},
		{[]string{"99999999999999999999999"}, "invalid task reference: 99999999999999999999999"},
	}
	for _, tt := range tests {
		_, err := ParseTaskNumber(tt.args)
		if err == nil {
			t.Errorf("ParseTaskNumber(%v): expected error", tt.args)
			continue
		}
		if err.Error() != tt.want {
			t.Errorf("ParseTaskNumber(%v): expected %q, got %q", tt.args, tt.want, err.Error())
		}
	}
}

func TestParseTaskNumber_Required(t *testing.T) {
	_, err := ParseTaskNumber(nil)
	if !errors.Is(err, ErrTaskRefRequired) {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestRowAt(t *testing.T) {
	rows := []tasklist.Row{{ID: "a"}, {ID: "b"}}

	row, err := rowAt(rows, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.ID != "b" {
		t.Errorf("expected row b, got %q", row.ID)
	}

	for _, n := range []int{0, 3} {
		if _, err := rowAt(rows, n); err == nil {
			t.Errorf("rowAt(%d): expected out of range error", n)
		}
	}
}
