package chat

import "errors"

// Domain-specific errors for the chat package.
var (
	ErrEmptyInput      = errors.New("chat input is empty")
	ErrTurnInProgress  = errors.New("a turn is already in progress for this session")
	ErrSessionNotFound = errors.New("session not found")
)
