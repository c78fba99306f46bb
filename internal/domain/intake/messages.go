package intake

import "workflowmonk/internal/domain/wizard"

const (
	MessageState = "state"
	MessageError = "error"
	MessageExit  = "exit"
)

// ServerMessage is every frame the websocket endpoint writes.
type ServerMessage struct {
	Type        string        `json:"type"`
	State       *wizard.State `json:"state,omitempty"`
	Step        *StepView     `json:"step,omitempty"`
	CanContinue bool          `json:"can_continue,omitempty"`
	Exit        wizard.Exit   `json:"exit,omitempty"`
	Code        string        `json:"code,omitempty"`
	Message     string        `json:"message,omitempty"`
}

func NewStateMessage(c *wizard.Controller) *ServerMessage {
	v := newSessionView(c)
	return &ServerMessage{
		Type:        MessageState,
		State:       &v.State,
		Step:        &v.Step,
		CanContinue: v.CanContinue,
	}
}

func NewErrorMessage(code, message string) *ServerMessage {
	return &ServerMessage{
		Type:    MessageError,
		Code:    code,
		Message: message,
	}
}

func NewExitMessage(exit wizard.Exit) *ServerMessage {
	return &ServerMessage{
		Type: MessageExit,
		Exit: exit,
	}
}
