// Package prompt wraps promptui for the interactive parts of the CLI:
// confirmations and password entry.
package prompt

import (
	"errors"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user cancels a prompt with Ctrl+C.
var ErrAborted = errors.New("aborted")

// ErrPasswordMismatch is returned when the confirmation password differs
// from the first entry.
var ErrPasswordMismatch = errors.New("passwords do not match")

// IsAborted reports whether err means the user cancelled the prompt.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted) || errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort)
}

// wrapErr folds promptui's interrupt and abort errors into ErrAborted so
// callers match on a single sentinel.
func wrapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case IsAborted(err):
		return ErrAborted
	default:
		return err
	}
}
