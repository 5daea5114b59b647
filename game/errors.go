package game

import "errors"

var (
	ErrInvalidPhase  = errors.New("invalid-phase")
	ErrWindowClosed  = errors.New("join-window-closed")
	ErrDuplicateName = errors.New("duplicate-name")
	ErrUnknownPlayer = errors.New("unknown-player")
	ErrNotInProgress = errors.New("no-active-question")

	ErrEmptyBank         = errors.New("question bank is empty")
	ErrTooFewOptions     = errors.New("question needs at least two options")
	ErrCorrectOutOfRange = errors.New("correct index out of range")
)
