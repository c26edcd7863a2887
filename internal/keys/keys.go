// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// EditorKeyMap holds the bindings of the variable-aware input.
type EditorKeyMap struct {
	// Caret
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	Home      key.Binding
	End       key.Binding
	SelectL   key.Binding
	SelectR   key.Binding
	SelectAll key.Binding

	// Editing
	Backspace  key.Binding
	Delete     key.Binding
	DeleteWord key.Binding
	Newline    key.Binding
	Clear      key.Binding
	Undo       key.Binding
	Redo       key.Binding
}

// PopupKeyMap holds the bindings active while the placeholder menu is open.
// They take precedence over EditorKeyMap.
type PopupKeyMap struct {
	Next     key.Binding
	Previous key.Binding
	Commit   key.Binding
	Cancel   key.Binding
}

// AppKeyMap holds the bindings of the edit command.
type AppKeyMap struct {
	Save    key.Binding
	Preview key.Binding
	Help    key.Binding
	Logs    key.Binding
	Quit    key.Binding
}

// Editor is the default editor keymap.
var Editor = EditorKeyMap{
	Left: key.NewBinding(
		key.WithKeys("left", "ctrl+b"),
		key.WithHelp("←", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "ctrl+f"),
		key.WithHelp("→", "right"),
	),
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "line up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "line down"),
	),
	Home: key.NewBinding(
		key.WithKeys("home", "ctrl+a"),
		key.WithHelp("home", "start"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "ctrl+e"),
		key.WithHelp("end", "end"),
	),
	SelectL: key.NewBinding(
		key.WithKeys("shift+left"),
		key.WithHelp("shift+←", "extend left"),
	),
	SelectR: key.NewBinding(
		key.WithKeys("shift+right"),
		key.WithHelp("shift+→", "extend right"),
	),
	SelectAll: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "select all"),
	),
	Backspace: key.NewBinding(
		key.WithKeys("backspace", "ctrl+h"),
		key.WithHelp("⌫", "delete back"),
	),
	Delete: key.NewBinding(
		key.WithKeys("delete", "ctrl+d"),
		key.WithHelp("del", "delete forward"),
	),
	DeleteWord: key.NewBinding(
		key.WithKeys("ctrl+w", "alt+backspace"),
		key.WithHelp("ctrl+w", "delete word"),
	),
	Newline: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "new line"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("ctrl+u", "clear"),
	),
	Undo: key.NewBinding(
		key.WithKeys("ctrl+z"),
		key.WithHelp("ctrl+z", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "redo"),
	),
}

// Popup is the default popup keymap.
var Popup = PopupKeyMap{
	Next: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓/ctrl+n", "next"),
	),
	Previous: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑/ctrl+p", "previous"),
	),
	Commit: key.NewBinding(
		key.WithKeys("enter", "tab"),
		key.WithHelp("enter/tab", "insert"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "dismiss"),
	),
}

// App is the default application keymap.
var App = AppKeyMap{
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
	Preview: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "preview"),
	),
	Help: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("f1", "help"),
	),
	Logs: key.NewBinding(
		key.WithKeys("f2"),
		key.WithHelp("f2", "debug logs"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "ctrl+q"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// ShortHelp returns bindings for the mini help view.
func (k AppKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Preview, k.Help, k.Quit}
}

// FullHelp returns bindings for the expanded help view.
func (k AppKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{Editor.Left, Editor.Right, Editor.Up, Editor.Down, Editor.Home, Editor.End},
		{Editor.Backspace, Editor.Delete, Editor.DeleteWord, Editor.Clear, Editor.Undo, Editor.Redo},
		{Popup.Next, Popup.Previous, Popup.Commit, Popup.Cancel},
		{k.Save, k.Preview, k.Help, k.Logs, k.Quit},
	}
}

// ShortHelp returns the popup bindings.
func (k PopupKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Previous, k.Commit, k.Cancel}
}

// FullHelp returns the popup bindings as one column.
func (k PopupKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
