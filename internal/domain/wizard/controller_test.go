package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu          sync.Mutex
	transitions [][2]int
	invalid     []string
	submitted   int
	exits       []Exit
}

func (r *recordingObserver) Transition(from, to int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, [2]int{from, to})
}

func (r *recordingObserver) FieldInvalid(field string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalid = append(r.invalid, field)
}

func (r *recordingObserver) Submitted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submitted++
}

func (r *recordingObserver) Exited(exit Exit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exits = append(r.exits, exit)
}

func newInstant(opts ...ControllerOption) *Controller {
	return New(append([]ControllerOption{WithSettleDelay(0), WithSelectDelay(0)}, opts...)...)
}

// restoredAt returns an instant controller parked on step with blank answers.
func restoredAt(t *testing.T, step int, opts ...ControllerOption) *Controller {
	t.Helper()
	s := State{Step: step, Answers: NewAnswers()}
	c, err := Restore(s, append([]ControllerOption{WithSettleDelay(0), WithSelectDelay(0)}, opts...)...)
	require.NoError(t, err)
	return c
}

func fillContact(t *testing.T, c *Controller) {
	t.Helper()
	require.NoError(t, c.SetField(FieldFirstName, "Jane"))
	require.NoError(t, c.SetField(FieldLastName, "Doe"))
	require.NoError(t, c.SetField(FieldEmail, "jane@example.com"))
	c.SetPhone("5551234567")
	require.NoError(t, c.SetField(FieldCompany, "Acme"))
}

func TestNew_Defaults(t *testing.T) {
	c := New()
	s := c.State()
	assert.Equal(t, StepWelcome, s.Step)
	assert.Equal(t, DefaultWebsiteURL, s.Answers.WebsiteURL)
	assert.Equal(t, DefaultCountryCode, s.Answers.CountryCode)
	assert.Empty(t, s.Answers.Email)
	assert.Empty(t, s.Errors)
	assert.False(t, c.Transitioning())
}

func TestAdvance_IncrementsAndStopsAtLast(t *testing.T) {
	c := newInstant()
	ctx := context.Background()

	for i := 1; i <= LastStep; i++ {
		require.NoError(t, c.Advance(ctx))
		assert.Equal(t, i, c.Step())
	}
	require.NoError(t, c.Advance(ctx))
	assert.Equal(t, LastStep, c.Step())
}

func TestAdvance_ReentrantTriggerIsNoop(t *testing.T) {
	c := New(WithSettleDelay(50 * time.Millisecond))
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- c.Advance(ctx) }()

	require.Eventually(t, c.Transitioning, time.Second, time.Millisecond)
	assert.ErrorIs(t, c.Advance(ctx), ErrTransitioning)
	_, err := c.Retreat(ctx)
	assert.ErrorIs(t, err, ErrTransitioning)

	require.NoError(t, <-done)
	assert.Equal(t, StepBusinessType, c.Step())
	assert.False(t, c.Transitioning())
}

func TestAdvance_CancelledContext(t *testing.T) {
	c := New(WithSettleDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, c.Advance(ctx), context.Canceled)
	assert.Equal(t, StepWelcome, c.Step())
	assert.False(t, c.Transitioning())
}

func TestRetreat(t *testing.T) {
	c := restoredAt(t, StepRevenue)
	ctx := context.Background()

	exit, err := c.Retreat(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExitNone, exit)
	assert.Equal(t, StepHelpWith, c.Step())
}

func TestRetreat_FromWelcomeExits(t *testing.T) {
	obs := &recordingObserver{}
	c := newInstant(WithObserver(obs))
	require.NoError(t, c.SetField(FieldCompany, "Acme"))
	c.ToggleDropdown()

	exit, err := c.Retreat(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExitHome, exit)

	s := c.State()
	assert.Equal(t, StepWelcome, s.Step)
	assert.Equal(t, NewAnswers(), s.Answers)
	assert.Empty(t, s.Errors)
	assert.False(t, s.DropdownOpen)
	assert.Equal(t, []Exit{ExitHome}, obs.exits)
}

func TestSetField_ClearsErrorAndIsIdempotent(t *testing.T) {
	c := newInstant()
	require.NoError(t, c.SetField(FieldEmail, "bad"))
	msg, err := c.Blur(FieldEmail)
	require.NoError(t, err)
	assert.Equal(t, "Please enter a valid email address", msg)
	assert.True(t, c.State().Errors.Has(FieldEmail))

	require.NoError(t, c.SetField(FieldEmail, "still bad"))
	once := c.State()
	assert.False(t, once.Errors.Has(FieldEmail), "error cleared on change, not revalidated")

	require.NoError(t, c.SetField(FieldEmail, "still bad"))
	assert.Equal(t, once, c.State())

	assert.ErrorIs(t, c.SetField("nope", "x"), ErrUnknownField)
	_, err = c.Blur("nope")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSetField_ChoiceAndCountryCode(t *testing.T) {
	c := newInstant()
	before := c.State()

	assert.ErrorIs(t, c.SetField(FieldBusinessType, "bogus"), ErrInvalidOption)
	assert.ErrorIs(t, c.SetField(FieldProjectType, "weekly"), ErrInvalidOption)
	assert.ErrorIs(t, c.SetField(FieldMonthlyRevenue, ""), ErrInvalidOption)
	assert.ErrorIs(t, c.SetField(FieldCountryCode, "+999"), ErrInvalidOption)
	assert.Equal(t, before, c.State())

	require.NoError(t, c.SetField(FieldBusinessType, "C"))
	require.NoError(t, c.SetField(FieldMonthlyRevenue, ">500k"))
	require.NoError(t, c.SetField(FieldCountryCode, "+44"))
	a := c.State().Answers
	assert.Equal(t, "software", a.BusinessType, "key letter stored as its value")
	assert.Equal(t, ">500k", a.MonthlyRevenue)
	assert.Equal(t, "+44", a.CountryCode)
}

func TestSetField_FormatsPhone(t *testing.T) {
	c := newInstant()
	require.NoError(t, c.SetField(FieldPhone, "5551234567"))
	assert.Equal(t, "(555) 123-4567", c.State().Answers.Phone)
}

func TestBlur_ClearsWhenValid(t *testing.T) {
	c := newInstant()
	_, _ = c.Blur(FieldFirstName)
	assert.Equal(t, "First name is required", c.State().Errors[FieldFirstName])

	require.NoError(t, c.SetField(FieldFirstName, "Jo"))
	msg, err := c.Blur(FieldFirstName)
	require.NoError(t, err)
	assert.Empty(t, msg)
	_, present := c.State().Errors[FieldFirstName]
	assert.False(t, present)
}

func TestSetPhone_UsesCountryCode(t *testing.T) {
	c := newInstant()
	assert.Equal(t, "(555) 123-4567", c.SetPhone("5551234567"))

	require.NoError(t, c.SelectCountry("+44"))
	assert.Equal(t, "(555) 123-4567", c.State().Answers.Phone, "not reformatted until next edit")
	assert.Equal(t, "441 234 5678", c.SetPhone("4412345678"))
}

func TestSelectCountry(t *testing.T) {
	c := newInstant()
	assert.True(t, c.ToggleDropdown())
	require.NoError(t, c.SelectCountry("+358"))
	s := c.State()
	assert.Equal(t, "+358", s.Answers.CountryCode)
	assert.False(t, s.DropdownOpen)

	assert.ErrorIs(t, c.SelectCountry("+999"), ErrInvalidOption)

	c.ToggleDropdown()
	c.CloseDropdown()
	assert.False(t, c.State().DropdownOpen)
}

func TestSelect_AdvancesRegardlessOfPriorValue(t *testing.T) {
	ctx := context.Background()
	for _, step := range []int{StepBusinessType, StepProjectType, StepRevenue} {
		c := restoredAt(t, step)
		s, _ := StepAt(step)
		opt := s.Options[0]

		require.NoError(t, c.Select(ctx, opt.Value))
		assert.Equal(t, step+1, c.Step())
		st := c.State()
		v, _ := st.Answers.Get(s.Field)
		assert.Equal(t, opt.Value, v)

		_, err := c.Retreat(ctx)
		require.NoError(t, err)
		require.NoError(t, c.Select(ctx, opt.Key), "same value again by key letter")
		assert.Equal(t, step+1, c.Step())
	}
}

func TestSelect_Rejections(t *testing.T) {
	c := newInstant()
	ctx := context.Background()
	assert.ErrorIs(t, c.Select(ctx, "service"), ErrStepLocked)

	c = restoredAt(t, StepBusinessType)
	assert.ErrorIs(t, c.Select(ctx, "bakery"), ErrInvalidOption)
	assert.Equal(t, StepBusinessType, c.Step())
}

func TestSelect_WaitsForDelays(t *testing.T) {
	c := restoredAt(t, StepRevenue, WithSettleDelay(10*time.Millisecond), WithSelectDelay(20*time.Millisecond))

	start := time.Now()
	require.NoError(t, c.Select(context.Background(), ">500k"))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	assert.Equal(t, StepWebsite, c.Step())
}

func TestContinue_Gates(t *testing.T) {
	c := newInstant()
	ctx := context.Background()

	require.NoError(t, c.Continue(ctx))
	assert.Equal(t, StepBusinessType, c.Step())
	assert.ErrorIs(t, c.Continue(ctx), ErrStepLocked)

	c = restoredAt(t, StepDescription)
	assert.False(t, c.CanContinue())
	assert.ErrorIs(t, c.Continue(ctx), ErrStepLocked)
	require.NoError(t, c.SetField(FieldBusinessDescription, "We sell shoes"))
	assert.True(t, c.CanContinue())
	require.NoError(t, c.Continue(ctx))
	assert.Equal(t, StepProjectType, c.Step())

	c = restoredAt(t, StepWebsite)
	assert.ErrorIs(t, c.Continue(ctx), ErrStepLocked)
	require.NoError(t, c.SetField(FieldWebsiteURL, "nonsense"))
	_, _ = c.Blur(FieldWebsiteURL)
	assert.ErrorIs(t, c.Continue(ctx), ErrStepLocked)
	require.NoError(t, c.SetField(FieldWebsiteURL, "linkedin.com/in/jane"))
	require.NoError(t, c.Continue(ctx))
	assert.Equal(t, StepContact, c.Step())
}

func TestSubmit_BuildsURLAndAdvances(t *testing.T) {
	obs := &recordingObserver{}
	c := restoredAt(t, StepContact, WithObserver(obs), WithSchedulerURL("https://book.example/call"))
	fillContact(t, c)

	u, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Contains(t, u, "https://book.example/call?name=Jane+Doe")
	assert.Contains(t, u, "phonenumber=%2B1+%28555%29+123-4567")

	s := c.State()
	assert.Equal(t, LastStep, s.Step)
	assert.Equal(t, u, s.SchedulerURL)
	assert.Equal(t, 1, obs.submitted)
	assert.Contains(t, obs.transitions, [2]int{StepContact, LastStep})
}

func TestSubmit_Revalidates(t *testing.T) {
	obs := &recordingObserver{}
	c := restoredAt(t, StepContact, WithObserver(obs))
	fillContact(t, c)
	require.NoError(t, c.SetField(FieldEmail, "jane-at-example"))

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrValidation)
	s := c.State()
	assert.Equal(t, StepContact, s.Step)
	assert.Equal(t, "Please enter a valid email address", s.Errors[FieldEmail])
	assert.Empty(t, s.SchedulerURL)
	assert.Equal(t, []string{FieldEmail}, obs.invalid)

	assert.ErrorIs(t, c.Continue(context.Background()), ErrStepLocked, "error slot now set")
}

func TestSubmit_LockedWhenIncomplete(t *testing.T) {
	c := newInstant()
	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrStepLocked)

	c = restoredAt(t, StepContact)
	require.NoError(t, c.SetField(FieldFirstName, "Jane"))
	_, err = c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrStepLocked)
}

func TestSubmit_SecondSubmitDuringSettleIsNoop(t *testing.T) {
	obs := &recordingObserver{}
	c := restoredAt(t, StepContact, WithObserver(obs), WithSettleDelay(50*time.Millisecond))
	fillContact(t, c)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(ctx)
		done <- err
	}()
	require.Eventually(t, c.Transitioning, time.Second, time.Millisecond)

	require.NoError(t, c.SetField(FieldEmail, "jane-at-example"))
	u, err := c.Submit(ctx)
	assert.ErrorIs(t, err, ErrTransitioning)
	assert.Empty(t, u)
	assert.ErrorIs(t, c.Continue(ctx), ErrTransitioning)

	require.NoError(t, <-done)
	s := c.State()
	assert.Equal(t, LastStep, s.Step)
	assert.Contains(t, s.SchedulerURL, "email=jane%40example.com")
	assert.Empty(t, s.Errors)

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, 1, obs.submitted)
	assert.Empty(t, obs.invalid)
}

func TestSubmit_ConcurrentCallsSubmitOnce(t *testing.T) {
	obs := &recordingObserver{}
	c := restoredAt(t, StepContact, WithObserver(obs), WithSettleDelay(50*time.Millisecond))
	fillContact(t, c)
	ctx := context.Background()

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Submit(ctx)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, busy int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrTransitioning):
			busy++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, busy)
	assert.Equal(t, LastStep, c.Step())

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, 1, obs.submitted)
	assert.Equal(t, [][2]int{{StepContact, LastStep}}, obs.transitions)
}

func TestScheduleLater(t *testing.T) {
	c := newInstant()
	_, err := c.ScheduleLater()
	assert.ErrorIs(t, err, ErrStepLocked)

	c = restoredAt(t, LastStep)
	require.NoError(t, c.Advance(context.Background()))
	assert.Equal(t, LastStep, c.Step())

	exit, err := c.ScheduleLater()
	require.NoError(t, err)
	assert.Equal(t, ExitHomeSuccess, exit)
	assert.Equal(t, StepWelcome, c.Step())
}

func TestRestore_RejectsOutOfRange(t *testing.T) {
	_, err := Restore(State{Step: StepCount})
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = Restore(State{Step: -1})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestDispatch_FullRun(t *testing.T) {
	c := newInstant()
	ctx := context.Background()

	run := []Event{
		{Type: EventContinue},
		{Type: EventSelect, Value: "software"},
		{Type: EventSet, Field: FieldBusinessDescription, Value: "B2B invoicing"},
		{Type: EventContinue},
		{Type: EventSelect, Value: "ongoing"},
		{Type: EventSet, Field: FieldHelpWith, Value: "Onboarding emails"},
		{Type: EventContinue},
		{Type: EventSelect, Value: "25k-50k"},
		{Type: EventSet, Field: FieldWebsiteURL, Value: "https://invoices.example"},
		{Type: EventBlur, Field: FieldWebsiteURL},
		{Type: EventContinue},
		{Type: EventSet, Field: FieldFirstName, Value: "Sam"},
		{Type: EventSet, Field: FieldLastName, Value: "Lee"},
		{Type: EventSet, Field: FieldEmail, Value: "sam@invoices.example"},
		{Type: EventToggleDropdown},
		{Type: EventCountry, Value: "+49"},
		{Type: EventPhone, Value: "301234567"},
		{Type: EventSet, Field: FieldCompany, Value: "Invoices GmbH"},
		{Type: EventSubmit},
	}
	for _, e := range run {
		exit, err := c.Dispatch(ctx, e)
		require.NoError(t, err, e.Type)
		require.Equal(t, ExitNone, exit)
	}

	s := c.State()
	assert.Equal(t, LastStep, s.Step)
	assert.Equal(t, "301 234 567", s.Answers.Phone)
	assert.Contains(t, s.SchedulerURL, "phonenumber=%2B49+301+234+567")

	exit, err := c.Dispatch(ctx, Event{Type: EventScheduleLater})
	require.NoError(t, err)
	assert.Equal(t, ExitHomeSuccess, exit)
}

func TestDispatch_ExitAndUnknown(t *testing.T) {
	c := restoredAt(t, StepHelpWith)
	ctx := context.Background()

	exit, err := c.Dispatch(ctx, Event{Type: EventExit})
	require.NoError(t, err)
	assert.Equal(t, ExitHome, exit)
	assert.Equal(t, StepWelcome, c.Step())

	_, err = c.Dispatch(ctx, Event{Type: "dance"})
	assert.ErrorIs(t, err, ErrUnknownEvent)

	_, err = c.Dispatch(ctx, Event{Type: EventCloseDropdown})
	assert.NoError(t, err)
}
