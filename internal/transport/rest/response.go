package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"devtracker/internal/domain"
)

const msgInternal = "Internal server error"

type errorResponseBody struct {
	Error string `json:"error"`
}

type successResponseBody struct {
	Success bool   `json:"success"`
	ID      *int64 `json:"id,omitempty"`
}

type paginatedResponse struct {
	Data       interface{} `json:"data"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, errorResponseBody{Error: message})
}

func badRequestResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, message)
}

func notFoundResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusNotFound, message)
}

func internalServerErrorResponse(c *gin.Context) {
	errorResponse(c, http.StatusInternalServerError, msgInternal)
}

func createdResponse(c *gin.Context, id int64) {
	c.JSON(http.StatusCreated, successResponseBody{Success: true, ID: &id})
}

func okResponse(c *gin.Context) {
	c.JSON(http.StatusOK, successResponseBody{Success: true})
}

func paginatedSuccessResponse(c *gin.Context, data interface{}, totalCount, page, pageSize int) {
	totalPages := 0
	if pageSize > 0 {
		totalPages = totalCount / pageSize
		if totalCount%pageSize > 0 {
			totalPages++
		}
	}

	c.JSON(http.StatusOK, paginatedResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

// serviceErrorResponse maps service errors onto status codes. Unexpected errors
// are logged and hidden behind a generic message.
func (h *Handler) serviceErrorResponse(c *gin.Context, err error, notFoundMessage string) {
	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &validationErr):
		badRequestResponse(c, validationErr.Message)
	case errors.Is(err, domain.ErrNotFound):
		notFoundResponse(c, notFoundMessage)
	case errors.Is(err, domain.ErrSlotConflict):
		errorResponse(c, http.StatusConflict, "Time slot conflicts with an existing appointment")
	default:
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDCtx)),
			zap.Error(err),
		)
		internalServerErrorResponse(c)
	}
}
