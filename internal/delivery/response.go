package delivery

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront_service/internal/domain"
)

type Response struct {
	Status  string      `json:"Status"`
	Message string      `json:"Message"`
	Data    interface{} `json:"Data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:  "Success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Status:  "Fail",
		Message: message,
	})
}

var sentinelStatus = []struct {
	err    error
	status int
}{
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrAlreadyExists, http.StatusConflict},
	{domain.ErrInvalidTransition, http.StatusConflict},
	{domain.ErrReturnWindowClosed, http.StatusConflict},
	{domain.ErrInsufficientStock, http.StatusConflict},
	{domain.ErrCouponInvalid, http.StatusBadRequest},
	{domain.ErrEmptyCart, http.StatusBadRequest},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrPaymentFailed, http.StatusPaymentRequired},
	{domain.ErrPaymentDismissed, http.StatusPaymentRequired},
	{domain.ErrUnavailable, http.StatusServiceUnavailable},
}

func mapErrorToStatus(err error) int {
	if domain.IsValidationError(err) {
		return http.StatusBadRequest
	}
	for _, s := range sentinelStatus {
		if errors.Is(err, s.err) {
			return s.status
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "not found") {
		return http.StatusNotFound
	}
	if strings.Contains(errMsg, "already exists") || strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint") {
		return http.StatusConflict
	}
	if strings.Contains(errMsg, "invalid") || strings.Contains(errMsg, "cannot be empty") || strings.Contains(errMsg, "must be positive") || strings.Contains(errMsg, "cannot be negative") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError writes err with its mapped status. Server errors hide the
// underlying message.
func respondError(c *gin.Context, log *logrus.Logger, action string, err error) {
	statusCode := mapErrorToStatus(err)
	if statusCode >= http.StatusInternalServerError && statusCode != http.StatusServiceUnavailable {
		log.Errorf("Failed to %s: %v", action, err)
		ErrorResponse(c, statusCode, "Failed to "+action)
		return
	}
	log.Warnf("Failed to %s: %v", action, err)
	ErrorResponse(c, statusCode, "Failed to "+action+": "+err.Error())
}

func bindError(c *gin.Context, log *logrus.Logger, action string, err error) {
	log.Errorf("Failed to bind JSON for %s: %v", action, err)
	ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
}
