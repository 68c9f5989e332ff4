package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labpoint/labportal/internal/domain/booking"
	"github.com/labpoint/labportal/internal/domain/catalog"
	"github.com/labpoint/labportal/internal/domain/identity"
	"github.com/labpoint/labportal/internal/domain/report"
	"github.com/labpoint/labportal/internal/service"
	"github.com/labpoint/labportal/pkg/payment"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Contact string `json:"contact,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	var unverifiedErr *service.EmailNotVerifiedError
	if errors.As(err, &unverifiedErr) {
		// The contact address lets the client offer a resend directly.
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "email address is not verified",
			Code:    "EMAIL_NOT_VERIFIED",
			Contact: unverifiedErr.Contact,
		})
		return
	}

	switch {
	case errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, identity.ErrPatientNotFound),
		errors.Is(err, identity.ErrAdminNotFound),
		errors.Is(err, catalog.ErrTestNotFound),
		errors.Is(err, report.ErrReportNotFound),
		errors.Is(err, report.ErrResultNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, identity.ErrEmailTaken),
		errors.Is(err, identity.ErrPhoneTaken),
		errors.Is(err, catalog.ErrTestCodeTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, booking.ErrInvalidStatus),
		errors.Is(err, booking.ErrInvalidCollection),
		errors.Is(err, booking.ErrPaymentNotVerifiable),
		errors.Is(err, booking.ErrSignatureMismatch),
		errors.Is(err, catalog.ErrUnknownTestsInSet),
		errors.Is(err, identity.ErrOtpNotFound),
		errors.Is(err, identity.ErrOtpExpired),
		errors.Is(err, identity.ErrOtpInvalid),
		errors.Is(err, identity.ErrOtpAttemptsExceeded):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, report.ErrPaymentRequired):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error: err.Error(),
			Code:  "PAYMENT_REQUIRED",
		})

	case errors.Is(err, booking.ErrNotBookingOwner),
		errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})

	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})

	case errors.Is(err, service.ErrNoPasswordSet):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: err.Error(),
			Code:  "NO_PASSWORD_SET",
		})

	case errors.Is(err, payment.ErrGatewayUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}

	return true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}
