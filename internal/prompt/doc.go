// Package prompt reads answers from the terminal.
//
// The workflow never touches stdin directly; it talks to an Interactor so
// that the selection logic can be driven by a scripted reader in tests.
// Validation of answers lives with the caller, except for ParseYesNo which
// is shared by every yes/no question.
//
// Every prompt takes a context. Cancelling it, as Ctrl-C does, returns
// ctx.Err() straight away even while a read from the terminal is pending.
package prompt
