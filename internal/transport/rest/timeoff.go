package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"devtracker/internal/domain"
)

// @Summary List time off
// @Tags Time off
// @Produce json
// @Success 200 {array} domain.TimeOffRequest
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /time-off [get]
func (h *Handler) getTimeOff(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	requests, err := h.services.TimeOff.List(c.Request.Context(), identity.UserID)
	if err != nil {
		h.serviceErrorResponse(c, err, "Time off not found")
		return
	}

	c.JSON(http.StatusOK, requests)
}

// @Summary Create time off
// @Description Approved time off blocks every slot on the dates it covers. is_approved defaults to true.
// @Tags Time off
// @Accept json
// @Produce json
// @Param input body domain.CreateTimeOffDTO true "Time off"
// @Success 201 {object} successResponseBody
// @Failure 400 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /time-off [post]
func (h *Handler) createTimeOff(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	var req domain.CreateTimeOffDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid time off payload", zap.Error(err))
		badRequestResponse(c, msgInvalidBody)
		return
	}

	id, err := h.services.TimeOff.Create(c.Request.Context(), identity.UserID, req)
	if err != nil {
		h.serviceErrorResponse(c, err, "Time off not found")
		return
	}

	createdResponse(c, id)
}

// @Summary Update time off
// @Tags Time off
// @Accept json
// @Produce json
// @Param id path int true "Time off ID"
// @Param input body domain.UpdateTimeOffDTO true "Fields to change"
// @Success 200 {object} successResponseBody
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /time-off/{id} [put]
func (h *Handler) updateTimeOff(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req domain.UpdateTimeOffDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid time off payload", zap.Error(err))
		badRequestResponse(c, msgInvalidBody)
		return
	}

	if err := h.services.TimeOff.Update(c.Request.Context(), identity.UserID, id, req); err != nil {
		h.serviceErrorResponse(c, err, "Time off not found")
		return
	}

	okResponse(c)
}

// @Summary Delete time off
// @Tags Time off
// @Produce json
// @Param id path int true "Time off ID"
// @Success 200 {object} successResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /time-off/{id} [delete]
func (h *Handler) deleteTimeOff(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.services.TimeOff.Delete(c.Request.Context(), identity.UserID, id); err != nil {
		h.serviceErrorResponse(c, err, "Time off not found")
		return
	}

	okResponse(c)
}
