package wizard

import "errors"

var (
	ErrTransitioning = errors.New("step transition already in progress")
	ErrStepLocked    = errors.New("step cannot be continued yet")
	ErrUnknownField  = errors.New("unknown field")
	ErrInvalidOption = errors.New("option not offered on this step")
	ErrValidation    = errors.New("validation error")
	ErrUnknownEvent  = errors.New("unknown event type")
	ErrInvalidState  = errors.New("invalid wizard state")
)
