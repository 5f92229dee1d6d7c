package state

import (
	"errors"

	"github.com/publiceyeusa/publiceye/internal/client/client"
)

var ErrNotAuthenticated = errors.New("not logged in")

// Messages shown in the containers' error fields.
const (
	MsgInvalidCredentials = "Invalid credentials."
	MsgUnavailable        = "Server unavailable."
	MsgSessionExpired     = "Session expired, please log in again."
	MsgLogoutFailure      = "Logout failure."
	MsgNotAuthenticated   = "Not logged in."
)

// ErrorMessage turns an error into the one-line string a container stores.
func ErrorMessage(err error) string {
	var apiErr *client.APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, client.ErrInvalidCredentials):
		return MsgInvalidCredentials
	case errors.Is(err, client.ErrUnavailable):
		return MsgUnavailable
	case errors.Is(err, client.ErrUnauthorized):
		return MsgSessionExpired
	case errors.Is(err, ErrNotAuthenticated):
		return MsgNotAuthenticated
	case errors.As(err, &apiErr):
		return apiErr.Error()
	}
	return err.Error()
}
