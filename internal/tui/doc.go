// Package tui hosts an editor.Editor in a Bubble Tea program.
//
// Bucket lookups run as tea.Cmds and their answers come back to Update as
// ResultMsg, so the editor is only touched from the program loop.
package tui
