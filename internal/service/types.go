package service

import (
	"errors"
	"time"
)

// Task represents a single to-do item.
type Task struct {
	ID   string `json:"id"`
	Task string `json:"task"`
}

// Session identifies the signed-in user.
type Session struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session has a deadline that has passed.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Backend errors. Their messages are shown to users verbatim.
var (
	ErrInvalidCredentials = errors.New("email o contraseña incorrectos")
	ErrEmailTaken         = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("datos inválidos")
	ErrNotFound           = errors.New("no encontrado")
	ErrUnauthorized       = errors.New("sesión inválida o expirada")
)
