// Package ui holds what every front end shares: notices and user-facing copy.
package ui

import (
	"fmt"
	"io"
	"sync"
)

// Kind classifies a notice.
type Kind int

const (
	// Info is a confirmation or prompt.
	Info Kind = iota
	// Error reports a failed operation.
	Error
)

// Notice is a blocking notification: the user must acknowledge it.
type Notice struct {
	Kind    Kind
	Title   string
	Message string // optional detail
}

// String joins title and message the way the CLI prints them.
func (n Notice) String() string {
	if n.Message == "" {
		return n.Title
	}
	return n.Title + ": " + n.Message
}

// Notifier delivers notices to the user.
type Notifier interface {
	Notify(n Notice)
}

// Queue collects notices until they are drained.
// Safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	pending []Notice
}

// Notify implements Notifier.
func (q *Queue) Notify(n Notice) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, n)
}

// Drain returns and removes all pending notices in arrival order.
func (q *Queue) Drain() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// WriterNotifier prints info notices to out and error notices to errOut.
type WriterNotifier struct {
	Out    io.Writer
	ErrOut io.Writer
	Quiet  bool // suppress info notices
}

// Notify implements Notifier.
func (w WriterNotifier) Notify(n Notice) {
	if n.Kind == Error {
		fmt.Fprintf(w.ErrOut, "error: %s\n", n)
		return
	}
	if !w.Quiet {
		fmt.Fprintln(w.Out, n)
	}
}
