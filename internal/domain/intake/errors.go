package intake

import (
	"context"
	"errors"
	"net/http"

	"workflowmonk/internal/domain/wizard"
)

// errorCode maps controller errors onto HTTP status and envelope code.
func errorCode(err error) (int, string) {
	switch {
	case errors.Is(err, wizard.ErrTransitioning):
		return http.StatusConflict, "TRANSITIONING"
	case errors.Is(err, wizard.ErrStepLocked):
		return http.StatusConflict, "STEP_LOCKED"
	case errors.Is(err, wizard.ErrValidation):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR"
	case errors.Is(err, wizard.ErrInvalidOption):
		return http.StatusUnprocessableEntity, "INVALID_OPTION"
	case errors.Is(err, wizard.ErrUnknownField):
		return http.StatusBadRequest, "UNKNOWN_FIELD"
	case errors.Is(err, wizard.ErrUnknownEvent):
		return http.StatusBadRequest, "UNKNOWN_EVENT"
	case errors.Is(err, wizard.ErrInvalidState):
		return http.StatusBadRequest, "INVALID_STATE"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout, "REQUEST_CANCELLED"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
