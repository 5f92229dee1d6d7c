package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/publiceyeusa/publiceye/internal/server/http/response"
)

type AffiliationHandler struct {
	affiliations AffiliationService
}

func NewAffiliationHandler(affiliations AffiliationService) *AffiliationHandler {
	return &AffiliationHandler{affiliations: affiliations}
}

func (h *AffiliationHandler) List(c *gin.Context) {
	affs, err := h.affiliations.List(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, affs)
}

func (h *AffiliationHandler) Get(c *gin.Context) {
	a, err := h.affiliations.Get(c.Request.Context(), c.Param("category"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AffiliationHandler) Create(c *gin.Context) {
	a, err := h.affiliations.Create(c.Request.Context(), c.Param("category"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}
