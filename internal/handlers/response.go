package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"catalog-orders/internal/apperrors"
	"catalog-orders/internal/logger"
	"catalog-orders/internal/models"
)

// ErrorResponse es el cuerpo de todas las respuestas de error
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	MissingIDs []string          `json:"missing_ids,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

var statusByCode = map[string]int{
	apperrors.EINVALID:       http.StatusBadRequest,
	apperrors.EUNPROCESSABLE: http.StatusUnprocessableEntity,
	apperrors.ENOTFOUND:      http.StatusNotFound,
	apperrors.EINTERNAL:      http.StatusInternalServerError,
}

// respondError traduce err a status y cuerpo. Los errores internos se loguean
// con el request id y el cliente solo recibe un mensaje genérico.
func respondError(c *gin.Context, l *zap.Logger, err error) {
	code := apperrors.Code(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	if code == apperrors.EINTERNAL {
		logger.For(c.Request.Context(), l).Error("request failed",
			zap.String("op", apperrors.Op(err)),
			zap.Error(err))
	}
	_ = c.Error(err)

	c.JSON(status, ErrorResponse{Error: ErrorDetail{
		Code:       code,
		Message:    apperrors.Message(err),
		MissingIDs: apperrors.Refs(err),
		Fields:     apperrors.FieldErrors(err),
	}})
}

// bindError convierte un error de binding en un error tipado con el código dado.
// Los errores de validación llevan detalle por campo.
func bindError(code, op string, err error) error {
	if fields := models.DescribeValidation(err); fields != nil {
		return apperrors.Validation(code, op, fields)
	}
	if code == apperrors.EUNPROCESSABLE {
		return apperrors.Unprocessable(op, err)
	}
	return apperrors.Invalid(op, "invalid request body: %v", err)
}
