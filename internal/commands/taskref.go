package commands

import (
	"errors"
	"fmt"
	"strconv"

	"tareas/internal/tasklist"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskNumber parses the 1-based row number of a task from args.
func ParseTaskNumber(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected argument: %s", args[1])
	}
	if !isAllDigits(args[0]) {
		return 0, fmt.Errorf("invalid task reference: %s", args[0])
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid task reference: %s", args[0])
	}
	return n, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// rowAt returns the num-th row as numbered by the list command.
func rowAt(rows []tasklist.Row, num int) (tasklist.Row, error) {
	if num < 1 || num > len(rows) {
		return tasklist.Row{}, fmt.Errorf("task number out of range: %d", num)
	}
	return rows[num-1], nil
}
