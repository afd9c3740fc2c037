package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"homestay/internal/app/dto"
	quoteapp "homestay/internal/app/handlers/quote"
	"homestay/internal/app/queries"
)

type QuoteHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

type quoteRequest struct {
	CheckIn        string `json:"check_in"`
	CheckOut       string `json:"check_out"`
	PaymentType    string `json:"payment_type"`
	PartialPercent any    `json:"partial_percent"`
}

func (h QuoteHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}
	query := quoteapp.GetQuoteQuery{
		ListingID:      c.Param("id"),
		CheckIn:        req.CheckIn,
		CheckOut:       req.CheckOut,
		PaymentType:    req.PaymentType,
		PartialPercent: req.PartialPercent,
	}
	result, err := queries.Ask[quoteapp.GetQuoteQuery, dto.Quote](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ QuoteHTTP = QuoteHandler{}
