package server

import (
	"errors"
	"net/http"
	"strings"

	alertdomain "github.com/KaulanSerzhanuly/SafegUARD/internal/alert/domain"
	buddydomain "github.com/KaulanSerzhanuly/SafegUARD/internal/buddy/domain"
	incidentdomain "github.com/KaulanSerzhanuly/SafegUARD/internal/incident/domain"
	locationdomain "github.com/KaulanSerzhanuly/SafegUARD/internal/location/domain"
	proximitydomain "github.com/KaulanSerzhanuly/SafegUARD/internal/proximity/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrRateLimited        = errors.New("rate_limited")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, buddydomain.ErrNotParticipant):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		return "server_error", payload.Type
	}
	return "client_error", payload.Type
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isLocationValidationError(err),
		isProximityValidationError(err),
		isIncidentValidationError(err),
		isBuddyValidationError(err),
		isAlertValidationError(err):
		return true
	default:
		return false
	}
}

func isLocationValidationError(err error) bool {
	switch {
	case errors.Is(err, locationdomain.ErrInvalidIdentity),
		errors.Is(err, locationdomain.ErrInvalidLatitude),
		errors.Is(err, locationdomain.ErrInvalidLongitude),
		errors.Is(err, locationdomain.ErrInvalidAccuracy),
		errors.Is(err, locationdomain.ErrInvalidSpeed),
		errors.Is(err, locationdomain.ErrInvalidHeading):
		return true
	default:
		return false
	}
}

func isProximityValidationError(err error) bool {
	switch {
	case errors.Is(err, proximitydomain.ErrInvalidIdentity),
		errors.Is(err, proximitydomain.ErrInvalidKind),
		errors.Is(err, proximitydomain.ErrInvalidLatitude),
		errors.Is(err, proximitydomain.ErrInvalidLongitude),
		errors.Is(err, proximitydomain.ErrInvalidRadius),
		errors.Is(err, proximitydomain.ErrInvalidMessage):
		return true
	default:
		return false
	}
}

func isIncidentValidationError(err error) bool {
	switch {
	case errors.Is(err, incidentdomain.ErrInvalidIdentity),
		errors.Is(err, incidentdomain.ErrInvalidType),
		errors.Is(err, incidentdomain.ErrInvalidDescription),
		errors.Is(err, incidentdomain.ErrInvalidLatitude),
		errors.Is(err, incidentdomain.ErrInvalidLongitude),
		errors.Is(err, incidentdomain.ErrInvalidSeverity):
		return true
	default:
		return false
	}
}

func isBuddyValidationError(err error) bool {
	switch {
	case errors.Is(err, buddydomain.ErrInvalidIdentity),
		errors.Is(err, buddydomain.ErrInvalidParticipants),
		errors.Is(err, buddydomain.ErrInvalidInterval),
		errors.Is(err, buddydomain.ErrInvalidStatus):
		return true
	default:
		return false
	}
}

func isAlertValidationError(err error) bool {
	switch {
	case errors.Is(err, alertdomain.ErrInvalidIdentity),
		errors.Is(err, alertdomain.ErrInvalidLatitude),
		errors.Is(err, alertdomain.ErrInvalidLongitude),
		errors.Is(err, alertdomain.ErrInvalidMessage):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, locationdomain.ErrUserNotFound),
		errors.Is(err, buddydomain.ErrSessionNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}
