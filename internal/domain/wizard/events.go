package wizard

import "context"

// EventType names a user interaction a presentation layer forwards to the controller.
type EventType string

const (
	EventSet            EventType = "set"
	EventPhone          EventType = "phone"
	EventBlur           EventType = "blur"
	EventSelect         EventType = "select"
	EventContinue       EventType = "continue"
	EventBack           EventType = "back"
	EventSubmit         EventType = "submit"
	EventCountry        EventType = "country"
	EventToggleDropdown EventType = "toggle_dropdown"
	EventCloseDropdown  EventType = "close_dropdown"
	EventScheduleLater  EventType = "schedule_later"
	EventExit           EventType = "exit"
)

// Event is one interaction. Field and Value are only read by the event types
// that need them.
type Event struct {
	Type  EventType `json:"type" validate:"required"`
	Field string    `json:"field,omitempty"`
	Value string    `json:"value,omitempty"`
}

// Dispatch applies e to the controller. A non-empty Exit means the run is over
// and the controller has been reset.
func (c *Controller) Dispatch(ctx context.Context, e Event) (Exit, error) {
	switch e.Type {
	case EventSet:
		return ExitNone, c.SetField(e.Field, e.Value)
	case EventPhone:
		c.SetPhone(e.Value)
		return ExitNone, nil
	case EventBlur:
		_, err := c.Blur(e.Field)
		return ExitNone, err
	case EventSelect:
		return ExitNone, c.Select(ctx, e.Value)
	case EventContinue:
		return ExitNone, c.Continue(ctx)
	case EventBack:
		return c.Retreat(ctx)
	case EventSubmit:
		_, err := c.Submit(ctx)
		return ExitNone, err
	case EventCountry:
		return ExitNone, c.SelectCountry(e.Value)
	case EventToggleDropdown:
		c.ToggleDropdown()
		return ExitNone, nil
	case EventCloseDropdown:
		c.CloseDropdown()
		return ExitNone, nil
	case EventScheduleLater:
		return c.ScheduleLater()
	case EventExit:
		return c.Exit(), nil
	default:
		return ExitNone, ErrUnknownEvent
	}
}
