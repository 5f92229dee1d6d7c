package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/publiceyeusa/publiceye/internal/server/http/middleware"
	"github.com/publiceyeusa/publiceye/internal/server/http/response"
	"github.com/publiceyeusa/publiceye/internal/server/services"
)

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	User  string `json:"user"`
	Token string `json:"token"`
}

type UserHandler struct {
	users UserService
}

func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Info answers with the caller's email as a bare JSON string.
func (h *UserHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c).Email)
}

func (h *UserHandler) Register(c *gin.Context) {
	h.register(c, h.users.Register)
}

func (h *UserHandler) RegisterAdmin(c *gin.Context) {
	h.register(c, h.users.RegisterAdmin)
}

func (h *UserHandler) register(c *gin.Context, create func(ctx context.Context, email, password string) (*services.Session, error)) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}

	sess, err := create(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{User: sess.Email, Token: sess.Token})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}

	sess, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{User: sess.Email, Token: sess.Token})
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.users.Logout(c.Request.Context(), middleware.CurrentUser(c).ID); err != nil {
		response.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.users.DeleteUser(c.Request.Context(), middleware.CurrentUser(c).ID); err != nil {
		response.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
