package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"devtracker/internal/domain"
)

const msgPatientNotFound = "Patient not found"

// @Summary List patients
// @Tags Patients
// @Produce json
// @Success 200 {array} domain.Patient
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /patients [get]
func (h *Handler) getPatients(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	patients, err := h.services.Patient.List(c.Request.Context(), identity.UserID)
	if err != nil {
		h.serviceErrorResponse(c, err, msgPatientNotFound)
		return
	}

	c.JSON(http.StatusOK, patients)
}

// @Summary Get patient
// @Tags Patients
// @Produce json
// @Param id path int true "Patient ID"
// @Success 200 {object} domain.Patient
// @Failure 404 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /patients/{id} [get]
func (h *Handler) getPatientByID(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	patient, err := h.services.Patient.GetByID(c.Request.Context(), identity.UserID, id)
	if err != nil {
		h.serviceErrorResponse(c, err, msgPatientNotFound)
		return
	}

	c.JSON(http.StatusOK, patient)
}

// @Summary Create patient
// @Description The phone is stored in E.164 form.
// @Tags Patients
// @Accept json
// @Produce json
// @Param input body domain.CreatePatientDTO true "Patient"
// @Success 201 {object} successResponseBody
// @Failure 400 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /patients [post]
func (h *Handler) createPatient(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	var req domain.CreatePatientDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid patient payload", zap.Error(err))
		badRequestResponse(c, msgInvalidBody)
		return
	}

	id, err := h.services.Patient.Create(c.Request.Context(), identity.UserID, req)
	if err != nil {
		h.serviceErrorResponse(c, err, msgPatientNotFound)
		return
	}

	createdResponse(c, id)
}

// @Summary Update patient
// @Tags Patients
// @Accept json
// @Produce json
// @Param id path int true "Patient ID"
// @Param input body domain.UpdatePatientDTO true "Fields to change"
// @Success 200 {object} successResponseBody
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /patients/{id} [put]
func (h *Handler) updatePatient(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req domain.UpdatePatientDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid patient payload", zap.Error(err))
		badRequestResponse(c, msgInvalidBody)
		return
	}

	if err := h.services.Patient.Update(c.Request.Context(), identity.UserID, id, req); err != nil {
		h.serviceErrorResponse(c, err, msgPatientNotFound)
		return
	}

	okResponse(c)
}

// @Summary Delete patient
// @Description Appointments of the patient keep existing with patient_id cleared.
// @Tags Patients
// @Produce json
// @Param id path int true "Patient ID"
// @Success 200 {object} successResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /patients/{id} [delete]
func (h *Handler) deletePatient(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.services.Patient.Delete(c.Request.Context(), identity.UserID, id); err != nil {
		h.serviceErrorResponse(c, err, msgPatientNotFound)
		return
	}

	okResponse(c)
}
