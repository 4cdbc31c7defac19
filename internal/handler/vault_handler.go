package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-vault-api/internal/service"
	"github.com/noah-isme/school-vault-api/pkg/response"
)

// VaultHandler exposes whole-vault maintenance operations.
type VaultHandler struct {
	service *service.VaultService
}

// NewVaultHandler creates a new handler.
func NewVaultHandler(svc *service.VaultService) *VaultHandler {
	return &VaultHandler{service: svc}
}

// Clear godoc
// @Summary Wipe all data of the logged-in user
// @Description Remove students, attendance and marks; the account itself survives
// @Tags Vault
// @Produce json
// @Success 204 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /vault [delete]
func (h *VaultHandler) Clear(c *gin.Context) {
	if err := h.service.ClearAll(); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
