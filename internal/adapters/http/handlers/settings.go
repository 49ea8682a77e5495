package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotebox/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotebox/internal/app"
)

// SettingsHandler serves reads and writes of the user settings.
type SettingsHandler struct {
	settings *app.SettingsService
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(settings *app.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSettings handles GET /api/v1/settings.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.Current())
}

// UpdateSettings handles PUT /api/v1/settings.
// The update is all or nothing: one invalid field rejects the request and
// nothing is saved.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req dto.SettingsRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	settings, err := h.settings.Patch(c.Request.Context(), req.Patch())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// ToggleTheme handles POST /api/v1/settings/theme/toggle.
func (h *SettingsHandler) ToggleTheme(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.ToggleTheme(c.Request.Context()))
}

// RegisterRoutes registers settings routes on the API group.
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	settings := rg.Group("/settings")
	settings.GET("", h.GetSettings)
	settings.PUT("", h.UpdateSettings)
	settings.POST("/theme/toggle", h.ToggleTheme)
}
