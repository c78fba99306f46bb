package wizard

import (
	"context"
	"sync"
	"time"
)

const (
	defaultSettleDelay = 300 * time.Millisecond
	defaultSelectDelay = 500 * time.Millisecond
)

// Exit is the signal handed back to the hosting shell when the wizard closes.
type Exit string

const (
	ExitNone        Exit = ""
	ExitHome        Exit = "home"
	ExitHomeSuccess Exit = "home_success"
)

// Observer is notified about controller activity. Implementations must be cheap
// and must not call back into the controller.
type Observer interface {
	Transition(from, to int)
	FieldInvalid(field string)
	Submitted()
	Exited(exit Exit)
}

type nopObserver struct{}

func (nopObserver) Transition(int, int) {}
func (nopObserver) FieldInvalid(string) {}
func (nopObserver) Submitted()          {}
func (nopObserver) Exited(Exit)         {}

// State is a serializable snapshot of a controller.
type State struct {
	Step         int     `json:"step"`
	Answers      Answers `json:"answers"`
	Errors       Errors  `json:"errors,omitempty"`
	DropdownOpen bool    `json:"dropdownOpen,omitempty"`
	SchedulerURL string  `json:"schedulerUrl,omitempty"`
}

// ControllerOption configures a Controller built by New or Restore.
type ControllerOption func(*Controller)

// WithSettleDelay sets the pause before a transition takes effect.
func WithSettleDelay(d time.Duration) ControllerOption {
	return func(c *Controller) { c.settle = d }
}

// WithSelectDelay sets the extra pause between picking an option and the transition.
func WithSelectDelay(d time.Duration) ControllerOption {
	return func(c *Controller) { c.selectDelay = d }
}

// WithSchedulerURL overrides the booking page base URL.
func WithSchedulerURL(base string) ControllerOption {
	return func(c *Controller) { c.baseURL = base }
}

func WithObserver(o Observer) ControllerOption {
	return func(c *Controller) {
		if o != nil {
			c.observer = o
		}
	}
}

// Controller owns the step index, the answers and the validation errors of one
// wizard run. It is safe for concurrent use; transitions are serialized.
type Controller struct {
	mu sync.Mutex

	step          int
	answers       Answers
	errs          Errors
	transitioning bool
	dropdownOpen  bool
	schedulerURL  string

	settle      time.Duration
	selectDelay time.Duration
	baseURL     string
	observer    Observer
}

// New starts a fresh wizard run on the welcome step.
func New(opts ...ControllerOption) *Controller {
	c := &Controller{
		settle:      defaultSettleDelay,
		selectDelay: defaultSelectDelay,
		baseURL:     DefaultSchedulerURL,
		observer:    nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.reset()
	return c
}

// Restore rebuilds a controller from a snapshot.
func Restore(s State, opts ...ControllerOption) (*Controller, error) {
	if s.Step < 0 || s.Step >= StepCount {
		return nil, ErrInvalidState
	}
	c := New(opts...)
	c.step = s.Step
	c.answers = s.Answers
	for k, v := range s.Errors {
		if v != "" {
			c.errs[k] = v
		}
	}
	c.dropdownOpen = s.DropdownOpen
	c.schedulerURL = s.SchedulerURL
	return c, nil
}

func (c *Controller) reset() {
	c.step = StepWelcome
	c.answers = NewAnswers()
	c.errs = make(Errors)
	c.dropdownOpen = false
	c.schedulerURL = ""
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	errs := make(Errors, len(c.errs))
	for k, v := range c.errs {
		errs[k] = v
	}
	return State{
		Step:         c.step,
		Answers:      c.answers,
		Errors:       errs,
		DropdownOpen: c.dropdownOpen,
		SchedulerURL: c.schedulerURL,
	}
}

func (c *Controller) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

func (c *Controller) Transitioning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transitioning
}

// CanContinue reports whether the current step's continue control is unlocked.
func (c *Controller) CanContinue() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := steps[c.step]
	return s.HasContinue() && s.Unlocked(&c.answers, c.errs)
}

// Advance moves one step forward after the settle delay. At the last step it
// leaves the index unchanged. A call while another transition is pending
// returns ErrTransitioning and changes nothing.
func (c *Controller) Advance(ctx context.Context) error {
	return c.transition(ctx, c.settle, func() {
		if c.step < LastStep {
			c.step++
		}
	})
}

// Retreat moves one step back after the settle delay. On the welcome step it
// discards the run and returns ExitHome instead.
func (c *Controller) Retreat(ctx context.Context) (Exit, error) {
	exit := ExitNone
	err := c.transition(ctx, c.settle, func() {
		if c.step > StepWelcome {
			c.step--
			return
		}
		exit = ExitHome
		c.reset()
	})
	if exit != ExitNone {
		c.observer.Exited(exit)
	}
	return exit, err
}

func (c *Controller) transition(ctx context.Context, delay time.Duration, apply func()) error {
	if err := c.begin(); err != nil {
		return err
	}
	return c.finish(ctx, delay, apply)
}

func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.transitioning {
		return ErrTransitioning
	}
	c.transitioning = true
	return nil
}

func (c *Controller) finish(ctx context.Context, delay time.Duration, apply func()) error {
	err := wait(ctx, delay)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.transitioning = false
	if err != nil {
		return err
	}

	from := c.step
	apply()
	if c.step != from {
		c.observer.Transition(from, c.step)
	}
	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// SetField stores value and drops any error recorded for the field. Errors are
// only recomputed on blur or submit. Choice fields and the calling code only
// take offered values; the phone is stored formatted.
func (c *Controller) SetField(field, value string) error {
	switch field {
	case FieldBusinessType, FieldProjectType, FieldMonthlyRevenue:
		opt, ok := FindOption(optionsFor(field), value)
		if !ok {
			return ErrInvalidOption
		}
		value = opt.Value
	case FieldCountryCode:
		if !KnownCountryCode(value) {
			return ErrInvalidOption
		}
	case FieldPhone:
		c.SetPhone(value)
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.answers.Set(field, value) {
		return ErrUnknownField
	}
	delete(c.errs, field)
	return nil
}

// SetPhone formats raw with the selected country code and stores the result.
func (c *Controller) SetPhone(raw string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.answers.Phone = FormatPhone(raw, c.answers.CountryCode)
	delete(c.errs, FieldPhone)
	return c.answers.Phone
}

// Blur validates the field's current value and records the outcome.
func (c *Controller) Blur(field string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.answers.Get(field)
	if !ok {
		return "", ErrUnknownField
	}
	return c.validateLocked(field, v), nil
}

func (c *Controller) validateLocked(field, value string) string {
	msg := ValidateField(field, value)
	if msg == "" {
		delete(c.errs, field)
		return ""
	}
	c.errs[field] = msg
	c.observer.FieldInvalid(field)
	return msg
}

// Select records an option on a choice step and moves on once the selection
// and settle delays have passed. The previous value does not matter.
func (c *Controller) Select(ctx context.Context, value string) error {
	c.mu.Lock()
	s := steps[c.step]
	if s.Kind != KindChoice {
		c.mu.Unlock()
		return ErrStepLocked
	}
	opt, ok := FindOption(s.Options, value)
	if !ok {
		c.mu.Unlock()
		return ErrInvalidOption
	}
	if c.transitioning {
		c.mu.Unlock()
		return ErrTransitioning
	}
	c.answers.Set(s.Field, opt.Value)
	delete(c.errs, s.Field)
	c.transitioning = true
	c.mu.Unlock()

	return c.finish(ctx, c.selectDelay+c.settle, func() {
		if c.step < LastStep {
			c.step++
		}
	})
}

// Continue is the manual "continue" control. It only advances when the
// current step offers one and its completion rule holds. On the contact step
// it submits.
func (c *Controller) Continue(ctx context.Context) error {
	c.mu.Lock()
	s := steps[c.step]
	unlocked := s.Unlocked(&c.answers, c.errs)
	c.mu.Unlock()

	switch {
	case s.Kind == KindContact:
		_, err := c.Submit(ctx)
		return err
	case !s.HasContinue(), !unlocked:
		return ErrStepLocked
	}
	return c.Advance(ctx)
}

// Submit revalidates the contact fields, builds the scheduler URL from the
// answers and advances to the handoff step. It returns the URL.
func (c *Controller) Submit(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.transitioning {
		c.mu.Unlock()
		return "", ErrTransitioning
	}
	if c.step != StepContact || !steps[c.step].Unlocked(&c.answers, c.errs) {
		c.mu.Unlock()
		return "", ErrStepLocked
	}
	invalid := false
	for _, f := range ContactFields {
		v, _ := c.answers.Get(f)
		if c.validateLocked(f, v) != "" {
			invalid = true
		}
	}
	if invalid {
		c.mu.Unlock()
		return "", ErrValidation
	}
	u := SchedulerURL(c.baseURL, c.answers)
	c.schedulerURL = u
	c.transitioning = true
	c.mu.Unlock()

	c.observer.Submitted()
	return u, c.finish(ctx, c.settle, func() {
		if c.step < LastStep {
			c.step++
		}
	})
}

// ScheduleLater leaves the handoff step without booking.
func (c *Controller) ScheduleLater() (Exit, error) {
	c.mu.Lock()
	if c.step != LastStep {
		c.mu.Unlock()
		return ExitNone, ErrStepLocked
	}
	c.reset()
	c.mu.Unlock()

	c.observer.Exited(ExitHomeSuccess)
	return ExitHomeSuccess, nil
}

// Exit abandons the run from any step.
func (c *Controller) Exit() Exit {
	c.mu.Lock()
	c.reset()
	c.mu.Unlock()

	c.observer.Exited(ExitHome)
	return ExitHome
}

// SelectCountry sets the calling code and closes the selector. The stored phone
// keeps its formatting until the next edit.
func (c *Controller) SelectCountry(code string) error {
	if !KnownCountryCode(code) {
		return ErrInvalidOption
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.answers.CountryCode = code
	c.dropdownOpen = false
	return nil
}

func (c *Controller) ToggleDropdown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropdownOpen = !c.dropdownOpen
	return c.dropdownOpen
}

// CloseDropdown handles a pointer interaction outside the selector.
func (c *Controller) CloseDropdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropdownOpen = false
}
