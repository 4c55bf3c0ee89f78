package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"devtracker/internal/domain"
	"devtracker/pkg/validator"
)

const msgAppointmentNotFound = "Appointment not found"

// @Summary List appointments
// @Tags Appointments
// @Produce json
// @Param patient_id query int false "Patient ID"
// @Param status query string false "Status" Enums(scheduled, confirmed, completed, cancelled, no_show)
// @Param date_from query string false "First day, YYYY-MM-DD"
// @Param date_to query string false "Last day, YYYY-MM-DD"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} paginatedResponse
// @Failure 400 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /appointments [get]
func (h *Handler) getAppointments(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	filter := domain.AppointmentFilter{UserID: identity.UserID}

	if raw := c.Query("patient_id"); raw != "" {
		patientID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequestResponse(c, "Invalid patient_id")
			return
		}
		filter.PatientID = &patientID
	}

	if raw := c.Query("status"); raw != "" {
		status := domain.AppointmentStatus(raw)
		filter.Status = &status
	}

	if raw := c.Query("date_from"); raw != "" {
		from, err := time.ParseInLocation(validator.DateLayout, raw, h.config.Location)
		if err != nil {
			badRequestResponse(c, "Invalid date_from, expected YYYY-MM-DD")
			return
		}
		filter.StartDate = &from
	}

	if raw := c.Query("date_to"); raw != "" {
		to, err := time.ParseInLocation(validator.DateLayout, raw, h.config.Location)
		if err != nil {
			badRequestResponse(c, "Invalid date_to, expected YYYY-MM-DD")
			return
		}
		end := to.AddDate(0, 0, 1)
		filter.EndDate = &end
	}

	filter.Limit, err = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || filter.Limit <= 0 {
		filter.Limit = 50
	}
	filter.Offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || filter.Offset < 0 {
		filter.Offset = 0
	}

	appointments, total, err := h.services.Appointment.List(c.Request.Context(), filter)
	if err != nil {
		h.serviceErrorResponse(c, err, msgAppointmentNotFound)
		return
	}

	pageSize := filter.Limit
	if pageSize > 500 {
		pageSize = 500
	}
	paginatedSuccessResponse(c, appointments, total, filter.Offset/pageSize+1, pageSize)
}

// @Summary Get appointment
// @Tags Appointments
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} domain.Appointment
// @Failure 404 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /appointments/{id} [get]
func (h *Handler) getAppointmentByID(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	appointment, err := h.services.Appointment.GetByID(c.Request.Context(), identity.UserID, id)
	if err != nil {
		h.serviceErrorResponse(c, err, msgAppointmentNotFound)
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// @Summary Create appointment
// @Description Rejects an interval that overlaps another active appointment with 409.
// @Tags Appointments
// @Accept json
// @Produce json
// @Param input body domain.CreateAppointmentDTO true "Appointment"
// @Success 201 {object} successResponseBody
// @Failure 400 {object} errorResponseBody
// @Failure 409 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /appointments [post]
func (h *Handler) createAppointment(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	var req domain.CreateAppointmentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid appointment payload", zap.Error(err))
		badRequestResponse(c, msgInvalidBody)
		return
	}

	id, err := h.services.Appointment.Create(c.Request.Context(), identity.UserID, req)
	if err != nil {
		h.serviceErrorResponse(c, err, msgAppointmentNotFound)
		return
	}

	createdResponse(c, id)
}

// @Summary Update appointment
// @Tags Appointments
// @Accept json
// @Produce json
// @Param id path int true "Appointment ID"
// @Param input body domain.UpdateAppointmentDTO true "Fields to change"
// @Success 200 {object} successResponseBody
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 409 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /appointments/{id} [put]
func (h *Handler) updateAppointment(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req domain.UpdateAppointmentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid appointment payload", zap.Error(err))
		badRequestResponse(c, msgInvalidBody)
		return
	}

	if err := h.services.Appointment.Update(c.Request.Context(), identity.UserID, id, req); err != nil {
		h.serviceErrorResponse(c, err, msgAppointmentNotFound)
		return
	}

	okResponse(c)
}

// @Summary Cancel appointment
// @Description Marks the appointment cancelled and frees its slot.
// @Tags Appointments
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} successResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /appointments/{id}/cancel [post]
func (h *Handler) cancelAppointment(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.services.Appointment.Cancel(c.Request.Context(), identity.UserID, id); err != nil {
		h.serviceErrorResponse(c, err, msgAppointmentNotFound)
		return
	}

	okResponse(c)
}

// @Summary Delete appointment
// @Tags Appointments
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} successResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /appointments/{id} [delete]
func (h *Handler) deleteAppointment(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.services.Appointment.Delete(c.Request.Context(), identity.UserID, id); err != nil {
		h.serviceErrorResponse(c, err, msgAppointmentNotFound)
		return
	}

	okResponse(c)
}
