package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotebox/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotebox/internal/app"
	"github.com/jsamuelsen/quotebox/internal/domain"
)

// QuoteHandler serves quote selection.
type QuoteHandler struct {
	quotes   *app.QuoteService
	settings *app.SettingsService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(quotes *app.QuoteService, settings *app.SettingsService) *QuoteHandler {
	return &QuoteHandler{
		quotes:   quotes,
		settings: settings,
	}
}

// GetQuote handles GET /api/v1/quote.
// Without ?category the saved category is used. The response is always a
// quote; when the quote API is down it comes from the fallback list.
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	var query dto.QuoteQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	category := domain.Category(query.Category)
	if category == "" {
		category = h.settings.Current().Category
	}

	sel := h.quotes.Select(c.Request.Context(), category)

	c.JSON(http.StatusOK, dto.NewQuoteResponse(sel))
}

// RegisterRoutes registers quote routes on the API group.
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/quote", h.GetQuote)
}
