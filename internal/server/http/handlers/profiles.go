package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/publiceyeusa/publiceye/internal/server/http/middleware"
	"github.com/publiceyeusa/publiceye/internal/server/http/response"
	"github.com/publiceyeusa/publiceye/internal/server/services"
)

type editProfileRequest struct {
	DisplayName  *string `json:"display_name"`
	Affiliations []int64 `json:"affiliations"`
}

type ProfileHandler struct {
	profiles ProfileService
}

func NewProfileHandler(profiles ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.profiles.Get(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) Edit(c *gin.Context) {
	var req editProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}

	p, err := h.profiles.Update(c.Request.Context(), middleware.CurrentUser(c).ID, services.ProfileUpdate{
		DisplayName:  req.DisplayName,
		Affiliations: req.Affiliations,
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) DisplayName(c *gin.Context) {
	name, err := h.profiles.DisplayName(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"display_name": name})
}
