package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"devtracker/internal/domain"
	"devtracker/internal/service"
	"devtracker/pkg/validator"
)

// @Summary Available slots
// @Description Bookable start times for a date. Candidates are 30 minutes apart inside each active schedule window and must not overlap a non-cancelled appointment.
// @Tags Slots
// @Produce json
// @Param date query string true "Date, YYYY-MM-DD"
// @Param duration query int false "Slot length in minutes" default(30)
// @Success 200 {array} domain.Slot
// @Failure 400 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /slots [get]
func (h *Handler) getSlots(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	date := c.Query("date")
	if date == "" {
		badRequestResponse(c, service.MsgDateRequired)
		return
	}
	if !validator.ValidateDate(date) {
		badRequestResponse(c, service.MsgInvalidDate)
		return
	}

	duration := h.config.Slots.DefaultDuration
	if raw, ok := c.GetQuery("duration"); ok {
		duration, err = strconv.Atoi(raw)
		if err != nil || duration <= 0 || duration > domain.MaxDurationMinutes {
			badRequestResponse(c, service.MsgInvalidDuration)
			return
		}
	}

	slots, err := h.services.Slot.Available(c.Request.Context(), identity.UserID, date, duration)
	if err != nil {
		h.serviceErrorResponse(c, err, "Slots not found")
		return
	}

	c.JSON(http.StatusOK, slots)
}
