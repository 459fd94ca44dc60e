package http

import (
	"errors"
	"net/http"

	"aelfgpt/internal/chat"
	"aelfgpt/pkg/response"
)

var errContentTooLong = response.NewHTTPError(http.StatusBadRequest, "message is too long")

// mapError translates chat use-case errors into HTTP errors.
func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, chat.ErrTurnInProgress):
		return response.NewHTTPError(http.StatusConflict, "a reply is still being generated for this session")
	case errors.Is(err, chat.ErrSessionNotFound):
		return response.NewHTTPError(http.StatusNotFound, "session not found")
	case errors.Is(err, chat.ErrEmptyInput):
		return response.NewHTTPError(http.StatusBadRequest, "message is empty")
	default:
		return response.NewHTTPError(http.StatusInternalServerError, response.DefaultErrorMessage)
	}
}
