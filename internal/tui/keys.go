package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Submit  key.Binding
	Toggle  key.Binding
	Up      key.Binding
	Down    key.Binding
	Delete  key.Binding
	SignOut key.Binding
	Dismiss key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "salir")),
		Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "siguiente campo")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "campo anterior")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "enviar")),
		Toggle:  key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "cambiar formulario")),
		Up:      key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "subir")),
		Down:    key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "bajar")),
		Delete:  key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "borrar")),
		SignOut: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "cerrar sesión")),
		Dismiss: key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "continuar")),
	}
}
