// Package ui implements the snipbox terminal interface with Bubble Tea.
//
// The Model is a thin presentation layer over engine.Engine: key presses
// become engine callbacks and every frame is rendered from the engine's
// read model (filtered view, selection, toast). The UI keeps only state
// that belongs to the screen itself, such as the active mode, the form and
// modal widgets, the preview viewport and the theme.
//
// # Modes
//
//   - browse: list navigation and snippet actions
//   - search: the query box has focus and filters as you type
//   - form: create or edit a snippet
//   - modal: delete confirmation or the import path prompt
//   - help: key reference overlay
//
// Clipboard writes and import file reads run as tea.Cmds so the update loop
// never blocks on the OS. Their results come back as messages and are handed
// to the engine, which owns the acknowledgment toast. Toasts are cleared by a
// tick carrying the toast generation, so a newer toast is never cleared early.
//
// Theme and preview visibility are saved to the prefs file whenever they change.
package ui
