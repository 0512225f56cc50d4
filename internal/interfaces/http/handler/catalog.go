package handler

import (
	"github.com/gin-gonic/gin"

	"professor-ai-api/internal/application/teaching"
	"professor-ai-api/internal/interfaces/http/dto"
)

// CatalogHandler serves the fixed form option lists.
type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// GetCatalog returns the option lists clients render their selects from.
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	dto.Success(c, teaching.DefaultCatalog())
}
