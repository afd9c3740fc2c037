package ginserver

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"homestay/internal/app/dto"
	calendarapp "homestay/internal/app/handlers/calendar"
	"homestay/internal/app/queries"
)

type CalendarHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

func (h CalendarHandler) Month(c *gin.Context) {
	step := 0
	if raw := c.Query("step"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, errors.New("step must be an integer"))
			return
		}
		step = n
	}
	query := calendarapp.GetMonthQuery{
		ListingID: c.Param("id"),
		Month:     c.Query("month"),
		Step:      step,
		CheckIn:   c.Query("check_in"),
		CheckOut:  c.Query("check_out"),
	}
	result, err := queries.Ask[calendarapp.GetMonthQuery, dto.MonthView](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type selectDateRequest struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Date     string `json:"date" binding:"required"`
}

func (h CalendarHandler) Select(c *gin.Context) {
	var req selectDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	query := calendarapp.SelectDateQuery{
		ListingID: c.Param("id"),
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		Date:      req.Date,
	}
	result, err := queries.Ask[calendarapp.SelectDateQuery, dto.ClickResult](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// bindOptionalJSON accepts an empty body as "no fields".
func bindOptionalJSON(c *gin.Context, out any) error {
	if err := c.ShouldBindJSON(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

var _ CalendarHTTP = CalendarHandler{}
