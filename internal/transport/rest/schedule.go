package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"devtracker/internal/domain"
)

const msgInvalidBody = "Invalid request body"

// @Summary List availability schedules
// @Description Returns the caller's weekly schedules. A caller without schedules gets the default Monday to Friday week.
// @Tags Schedules
// @Produce json
// @Success 200 {array} domain.AvailabilitySchedule
// @Failure 401 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /schedules [get]
func (h *Handler) getSchedules(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	schedules, err := h.services.Schedule.List(c.Request.Context(), identity.UserID)
	if err != nil {
		h.serviceErrorResponse(c, err, "Schedule not found")
		return
	}

	c.JSON(http.StatusOK, schedules)
}

// @Summary Create availability schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param input body domain.CreateScheduleDTO true "Schedule"
// @Success 201 {object} successResponseBody
// @Failure 400 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /schedules [post]
func (h *Handler) createSchedule(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	var req domain.CreateScheduleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid schedule payload", zap.Error(err))
		badRequestResponse(c, msgInvalidBody)
		return
	}

	id, err := h.services.Schedule.Create(c.Request.Context(), identity.UserID, req)
	if err != nil {
		h.serviceErrorResponse(c, err, "Schedule not found")
		return
	}

	createdResponse(c, id)
}

// @Summary Update availability schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path int true "Schedule ID"
// @Param input body domain.UpdateScheduleDTO true "Fields to change"
// @Success 200 {object} successResponseBody
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /schedules/{id} [put]
func (h *Handler) updateSchedule(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req domain.UpdateScheduleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid schedule payload", zap.Error(err))
		badRequestResponse(c, msgInvalidBody)
		return
	}

	if err := h.services.Schedule.Update(c.Request.Context(), identity.UserID, id, req); err != nil {
		h.serviceErrorResponse(c, err, "Schedule not found")
		return
	}

	okResponse(c)
}

// @Summary Delete availability schedule
// @Tags Schedules
// @Produce json
// @Param id path int true "Schedule ID"
// @Success 200 {object} successResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /schedules/{id} [delete]
func (h *Handler) deleteSchedule(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.services.Schedule.Delete(c.Request.Context(), identity.UserID, id); err != nil {
		h.serviceErrorResponse(c, err, "Schedule not found")
		return
	}

	okResponse(c)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequestResponse(c, "Invalid id")
		return 0, false
	}
	return id, true
}
