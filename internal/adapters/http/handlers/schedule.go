package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotebox/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotebox/internal/app"
)

// ScheduleHandler exposes the time-window schedule.
type ScheduleHandler struct {
	schedule *app.ScheduleService
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(schedule *app.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule}
}

// GetSchedule handles GET /api/v1/schedule. Nothing is written.
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	c.JSON(http.StatusOK, h.schedule.Status(c.Request.Context()))
}

// CheckSchedule handles POST /api/v1/schedule/check. A due window is marked
// shown for today and the display is launched.
func (h *ScheduleHandler) CheckSchedule(c *gin.Context) {
	decision, err := h.schedule.Check(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewScheduleCheckResponse(decision, decision.Show))
}

// RegisterRoutes registers schedule routes on the API group.
func (h *ScheduleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	schedule := rg.Group("/schedule")
	schedule.GET("", h.GetSchedule)
	schedule.POST("/check", h.CheckSchedule)
}
