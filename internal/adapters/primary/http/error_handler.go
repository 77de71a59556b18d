package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	mw "github.com/homelink/marketplace-backend/internal/adapters/primary/http/middleware"
	apperrors "github.com/homelink/marketplace-backend/internal/core/errors"
)

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	return mw.GetRequestID(ctx)
}

// ErrorResponse is the standard JSON error response format
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse includes field-level validation errors
type ValidationErrorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// ErrorHandler provides centralized error handling with logging
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler with the given logger
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle processes an error and writes the appropriate HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	requestID := GetRequestID(r.Context())

	// Check for AppError first (our custom error type)
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		h.logError(r, appErr.StatusCode, appErr.Err, requestID)
		h.writeErrorResponse(w, appErr.StatusCode, ErrorResponse{
			Error:   appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		})
		return
	}

	// Check for ValidationErrors
	var validationErrs *apperrors.ValidationErrors
	if errors.As(err, &validationErrs) {
		h.logError(r, http.StatusUnprocessableEntity, err, requestID)
		h.writeValidationErrorResponse(w, validationErrs)
		return
	}

	// Map known domain errors to HTTP responses
	statusCode, response := h.mapDomainError(err)
	h.logError(r, statusCode, err, requestID)
	h.writeErrorResponse(w, statusCode, response)
}

// mapDomainError converts domain errors to HTTP status codes and responses
func (h *ErrorHandler) mapDomainError(err error) (int, ErrorResponse) {
	switch {
	// Authentication & Authorization
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrorResponse{
			Error: "Invalid credentials",
			Code:  "INVALID_CREDENTIALS",
		}
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{
			Error: "Authentication required",
			Code:  "UNAUTHORIZED",
		}
	case errors.Is(err, apperrors.ErrAccountNotVerified):
		return http.StatusForbidden, ErrorResponse{
			Error: "Account is not verified. Check your email for the verification code.",
			Code:  "ACCOUNT_NOT_VERIFIED",
		}
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{
			Error: "You do not have permission to perform this action",
			Code:  "FORBIDDEN",
		}
	case errors.Is(err, apperrors.ErrNotParticipant):
		return http.StatusForbidden, ErrorResponse{
			Error: "Only project participants can access this conversation",
			Code:  "NOT_PARTICIPANT",
		}

	// Not Found errors
	case errors.Is(err, apperrors.ErrUserNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error: "User not found",
			Code:  "USER_NOT_FOUND",
		}
	case errors.Is(err, apperrors.ErrProjectNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error: "Project not found",
			Code:  "PROJECT_NOT_FOUND",
		}
	case errors.Is(err, apperrors.ErrBidNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error: "Bid not found",
			Code:  "BID_NOT_FOUND",
		}
	case errors.Is(err, apperrors.ErrReviewNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error: "Review not found",
			Code:  "REVIEW_NOT_FOUND",
		}

	// Conflict errors
	case errors.Is(err, apperrors.ErrUserExists):
		return http.StatusConflict, ErrorResponse{
			Error: "A user with this email already exists",
			Code:  "USER_EXISTS",
		}
	case errors.Is(err, apperrors.ErrDuplicateBid):
		return http.StatusConflict, ErrorResponse{
			Error: "You have already bid on this project",
			Code:  "DUPLICATE_BID",
		}
	case errors.Is(err, apperrors.ErrReviewExists):
		return http.StatusConflict, ErrorResponse{
			Error: "This project has already been reviewed",
			Code:  "REVIEW_EXISTS",
		}
	case errors.Is(err, apperrors.ErrBidAlreadyAccepted):
		return http.StatusConflict, ErrorResponse{
			Error: "This bid has already been accepted",
			Code:  "BID_ALREADY_ACCEPTED",
		}
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, ErrorResponse{
			Error: "The request conflicts with the current state",
			Code:  "CONFLICT",
		}

	// Validation errors
	case errors.Is(err, apperrors.ErrTitleRequired),
		errors.Is(err, apperrors.ErrTitleTooLong),
		errors.Is(err, apperrors.ErrDescriptionTooLong),
		errors.Is(err, apperrors.ErrInvalidStatus),
		errors.Is(err, apperrors.ErrInvalidBidAmount),
		errors.Is(err, apperrors.ErrInvalidRating),
		errors.Is(err, apperrors.ErrReviewCommentTooLong),
		errors.Is(err, apperrors.ErrMessageBodyRequired),
		errors.Is(err, apperrors.ErrMessageBodyTooLong),
		errors.Is(err, apperrors.ErrEmailRequired),
		errors.Is(err, apperrors.ErrEmailInvalid),
		errors.Is(err, apperrors.ErrPasswordTooWeak),
		errors.Is(err, apperrors.ErrPasswordRequired),
		errors.Is(err, apperrors.ErrFullNameRequired),
		errors.Is(err, apperrors.ErrInvalidRole),
		errors.Is(err, apperrors.ErrInvalidOTP):
		return http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		}

	// Business rule violations
	case errors.Is(err, apperrors.ErrInvalidStatusTransition):
		return http.StatusBadRequest, ErrorResponse{
			Error: "Invalid status transition",
			Code:  "INVALID_STATUS_TRANSITION",
		}
	case errors.Is(err, apperrors.ErrProjectNotOpen):
		return http.StatusBadRequest, ErrorResponse{
			Error: "This project is not open for bidding",
			Code:  "PROJECT_NOT_OPEN",
		}
	case errors.Is(err, apperrors.ErrProjectNotCompleted):
		return http.StatusBadRequest, ErrorResponse{
			Error: "The project must be completed before it can be reviewed",
			Code:  "PROJECT_NOT_COMPLETED",
		}
	case errors.Is(err, apperrors.ErrProjectNotAssigned):
		return http.StatusBadRequest, ErrorResponse{
			Error: "The project has no assigned professional",
			Code:  "PROJECT_NOT_ASSIGNED",
		}
	case errors.Is(err, apperrors.ErrBidImmutable):
		return http.StatusBadRequest, ErrorResponse{
			Error: "An accepted bid cannot be modified",
			Code:  "BID_IMMUTABLE",
		}
	case errors.Is(err, apperrors.ErrOwnProjectBid):
		return http.StatusBadRequest, ErrorResponse{
			Error: "You cannot bid on your own project",
			Code:  "OWN_PROJECT_BID",
		}

	// Rate limiting
	case errors.Is(err, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests, ErrorResponse{
			Error: "Too many requests. Please try again later.",
			Code:  "RATE_LIMITED",
		}

	// Default to internal server error
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error: "An unexpected error occurred",
			Code:  "INTERNAL_ERROR",
		}
	}
}

// logError logs the error with appropriate context
func (h *ErrorHandler) logError(r *http.Request, statusCode int, err error, requestID string) {
	logAttrs := []any{
		"request_id", requestID,
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", statusCode,
		"error", err.Error(),
	}

	// Log at different levels based on status code
	switch {
	case statusCode >= 500:
		h.logger.Error("server error", logAttrs...)
	case statusCode >= 400:
		h.logger.Warn("client error", logAttrs...)
	default:
		h.logger.Info("request error", logAttrs...)
	}
}

// writeErrorResponse writes a JSON error response
func (h *ErrorHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, response ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

// writeValidationErrorResponse writes a validation error response
func (h *ErrorHandler) writeValidationErrorResponse(w http.ResponseWriter, errs *apperrors.ValidationErrors) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(ValidationErrorResponse{
		Error:  "Validation failed",
		Code:   "VALIDATION_ERROR",
		Fields: errs.Errors,
	})
}
