package intake

import "workflowmonk/internal/domain/wizard"

// ValidateRequest asks for the blur-time verdict on a single field.
type ValidateRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

type ValidateResponse struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type FormatPhoneRequest struct {
	Phone       string `json:"phone"`
	CountryCode string `json:"country_code" validate:"omitempty,startswith=+"`
}

type FormatPhoneResponse struct {
	Phone  string `json:"phone"`
	Digits string `json:"digits"`
}

// StepView is a step descriptor plus the numbers a renderer needs for its chrome.
type StepView struct {
	wizard.Step
	Progress      float64 `json:"progress"`
	Question      int     `json:"question,omitempty"`
	QuestionTotal int     `json:"question_total,omitempty"`
	HasContinue   bool    `json:"has_continue"`
}

// SessionView is what clients get back after every event.
type SessionView struct {
	Token       string       `json:"token,omitempty"`
	State       wizard.State `json:"state"`
	Step        StepView     `json:"step"`
	CanContinue bool         `json:"can_continue"`
	Exit        wizard.Exit  `json:"exit,omitempty"`
}

func newStepView(index int) StepView {
	s, _ := wizard.StepAt(index)
	v := StepView{
		Step:        s,
		Progress:    wizard.Progress(index),
		HasContinue: s.HasContinue(),
	}
	if k, n, ok := wizard.QuestionNumber(index); ok {
		v.Question, v.QuestionTotal = k, n
	}
	return v
}

func newSessionView(c *wizard.Controller) SessionView {
	s := c.State()
	return SessionView{
		State:       s,
		Step:        newStepView(s.Step),
		CanContinue: c.CanContinue(),
	}
}
