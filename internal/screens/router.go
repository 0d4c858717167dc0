// Package screens implements the screen flow: sign-in, sign-up and the main
// task list, switched by the session.
package screens

import (
	"errors"
	"sync"

	"tareas/internal/service"
)

// Screen identifies a screen.
type Screen int

const (
	// SignIn is the sign-in form.
	SignIn Screen = iota
	// SignUp is the account creation form.
	SignUp
	// Main is the task list, or the no-session prompt when signed out.
	Main
)

func (s Screen) String() string {
	switch s {
	case SignIn:
		return "signin"
	case SignUp:
		return "signup"
	case Main:
		return "main"
	}
	return "unknown"
}

// ErrSessionActive is returned when navigating away from Main while signed in.
var ErrSessionActive = errors.New("a session is active")

// TransitionFunc is told about every screen change.
type TransitionFunc func(from, to Screen)

// Router is the finite-state screen router.
//
//	signed in:  Main only
//	signed out: SignIn <-> SignUp, Main (prompt)
//
// Signing in moves to Main; signing out moves to SignIn. Leaving a screen
// runs its reset hook.
type Router struct {
	mu         sync.Mutex
	current    Screen
	hasSession bool
	listeners  []TransitionFunc
	onLeave    map[Screen][]func()
}

// NewRouter creates a signed-out router showing start.
func NewRouter(start Screen) *Router {
	return &Router{current: start, onLeave: make(map[Screen][]func())}
}

// Current returns the visible screen.
func (r *Router) Current() Screen {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// OnTransition registers a listener.
func (r *Router) OnTransition(fn TransitionFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// OnLeave registers a hook run whenever screen s is left.
func (r *Router) OnLeave(s Screen, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onLeave[s] = append(r.onLeave[s], fn)
}

// Navigate moves to screen to. Signed-in users can only be on Main.
func (r *Router) Navigate(to Screen) error {
	r.mu.Lock()
	if r.hasSession && to != Main {
		r.mu.Unlock()
		return ErrSessionActive
	}
	r.mu.Unlock()
	r.transition(to)
	return nil
}

// SessionChanged follows a session change: Main when signed in, SignIn
// when signed out.
func (r *Router) SessionChanged(s *service.Session) {
	r.mu.Lock()
	r.hasSession = s != nil
	r.mu.Unlock()

	if s != nil {
		r.transition(Main)
	} else {
		r.transition(SignIn)
	}
}

func (r *Router) transition(to Screen) {
	r.mu.Lock()
	from := r.current
	if from == to {
		r.mu.Unlock()
		return
	}
	r.current = to
	resets := append([]func(){}, r.onLeave[from]...)
	listeners := append([]TransitionFunc{}, r.listeners...)
	r.mu.Unlock()

	for _, reset := range resets {
		reset()
	}
	for _, fn := range listeners {
		fn(from, to)
	}
}
