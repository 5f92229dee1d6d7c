// Package response writes API responses. Error bodies follow the shapes the
// client understands: {"detail": "..."} for request-level failures and
// {"field": ["message"]} for field validation.
package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/publiceyeusa/publiceye/internal/common"
	"github.com/publiceyeusa/publiceye/internal/server/services"
)

const (
	MsgInvalidCredentials = "Invalid credentials."
	MsgUnauthorized       = "Invalid token."
	MsgNoCredentials      = "Authentication credentials were not provided."
	MsgForbidden          = "You do not have permission to perform this action."
	MsgNotFound           = "Not found."
	MsgInternal           = "Internal server error."
)

type Detail struct {
	Detail string `json:"detail"`
}

func RespondDetail(c *gin.Context, status int, msg string) {
	c.JSON(status, Detail{Detail: msg})
}

func AbortDetail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Detail{Detail: msg})
}

// RespondFields writes a 400 with one message per field.
func RespondFields(c *gin.Context, fields map[string][]string) {
	c.JSON(http.StatusBadRequest, fields)
}

// RespondBindError reports a request body that failed binding. Missing
// required fields are listed per field; anything else is a plain detail.
func RespondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			name := strings.ToLower(fe.Field())
			fields[name] = append(fields[name], bindMessage(fe))
		}
		RespondFields(c, fields)
		return
	}
	RespondDetail(c, http.StatusBadRequest, err.Error())
}

func bindMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	default:
		return "Invalid value."
	}
}

// RespondError maps service errors to status codes. Unexpected errors are
// reported as 500 without leaking their text.
func RespondError(c *gin.Context, err error) {
	var fe *services.FieldError
	switch {
	case errors.As(err, &fe):
		RespondFields(c, map[string][]string{fe.Field: {fe.Message}})
	case errors.Is(err, common.ErrorValidation):
		RespondDetail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorInvalidCredentials):
		c.JSON(http.StatusNotFound, MsgInvalidCredentials)
	case errors.Is(err, common.ErrorUnauthorized):
		RespondDetail(c, http.StatusUnauthorized, MsgUnauthorized)
	case errors.Is(err, common.ErrorForbidden):
		RespondDetail(c, http.StatusForbidden, MsgForbidden)
	case errors.Is(err, common.ErrorNotFound):
		RespondDetail(c, http.StatusNotFound, MsgNotFound)
	default:
		_ = c.Error(err)
		RespondDetail(c, http.StatusInternalServerError, MsgInternal)
	}
}
