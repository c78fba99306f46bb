package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"workflowmonk/internal/domain/wizard"
)

var fieldLabels = map[string]string{
	wizard.FieldBusinessDescription: "About your business",
	wizard.FieldHelpWith:            "What we can help with",
	wizard.FieldWebsiteURL:          "Website or LinkedIn",
	wizard.FieldFirstName:           "First name",
	wizard.FieldLastName:            "Last name",
	wizard.FieldEmail:               "Email",
	wizard.FieldPhone:               "Phone",
	wizard.FieldCompany:             "Company",
}

var placeholders = map[string]string{
	wizard.FieldBusinessDescription: "Describe your business, your customers and what you offer...",
	wizard.FieldHelpWith:            "e.g. lead follow-up, invoicing, onboarding...",
	wizard.FieldWebsiteURL:          "https://yourcompany.com",
	wizard.FieldFirstName:           "Jane",
	wizard.FieldLastName:            "Doe",
	wizard.FieldEmail:               "jane@company.com",
	wizard.FieldPhone:               "(555) 123-4567",
	wizard.FieldCompany:             "Company Inc.",
}

// transitionMsg reports the outcome of a controller call that waited out its
// settle delay off the update loop.
type transitionMsg struct {
	exit wizard.Exit
	url  string
	err  error
}

// Result is handed back once the program quits.
type Result struct {
	Exit         wizard.Exit
	SchedulerURL string
}

// Model renders one wizard run in the terminal. All state lives in the
// controller; the model only keeps what the widgets need.
type Model struct {
	ctx  context.Context
	ctrl *wizard.Controller

	step      int
	fields    []string
	inputs    []textinput.Model
	focus     int
	cursor    int
	country   int
	countries []wizard.Country

	busy   bool
	status string
	url    string
	exit   wizard.Exit

	bar    progress.Model
	styles styles
}

func New(ctx context.Context, ctrl *wizard.Controller) Model {
	m := Model{
		ctx:       ctx,
		ctrl:      ctrl,
		step:      -1,
		countries: wizard.Countries(),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
		styles:    defaultStyles(),
	}
	m.load()
	return m
}

// Run drives ctrl through a bubbletea program until the wizard exits or the
// user quits.
func Run(ctx context.Context, ctrl *wizard.Controller, opts ...tea.ProgramOption) (Result, error) {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	final, err := tea.NewProgram(New(ctx, ctrl), opts...).Run()
	if err != nil {
		return Result{}, err
	}
	m, ok := final.(Model)
	if !ok {
		return Result{}, fmt.Errorf("tui: unexpected final model %T", final)
	}
	return m.Result(), nil
}

func (m Model) Result() Result {
	return Result{Exit: m.exit, SchedulerURL: m.url}
}

// load rebuilds the widgets for the controller's current step. Focus survives
// when the step did not change.
func (m *Model) load() {
	st := m.ctrl.State()
	s, _ := wizard.StepAt(st.Step)

	sameStep := st.Step == m.step
	m.step = st.Step
	if !sameStep {
		m.focus = 0
		m.cursor = 0
	}

	switch s.Kind {
	case wizard.KindText, wizard.KindURL:
		m.fields = []string{s.Field}
	case wizard.KindContact:
		m.fields = append([]string(nil), wizard.ContactFields...)
	default:
		m.fields = nil
	}
	if m.focus >= len(m.fields) {
		m.focus = 0
	}

	m.inputs = make([]textinput.Model, len(m.fields))
	for i, f := range m.fields {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = placeholders[f]
		ti.CharLimit = 500
		ti.Width = 50
		v, _ := st.Answers.Get(f)
		ti.SetValue(v)
		if i == m.focus {
			ti.Focus()
		}
		m.inputs[i] = ti
	}

	if s.Kind == wizard.KindChoice && !sameStep {
		current, _ := st.Answers.Get(s.Field)
		for i, o := range s.Options {
			if o.Value == current {
				m.cursor = i
			}
		}
	}
}

func (m Model) current() wizard.Step {
	s, _ := wizard.StepAt(m.step)
	return s
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if w := msg.Width - 8; w > 10 {
			m.bar.Width = min(w, 60)
		}
		return m, nil
	case transitionMsg:
		return m.finish(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m.updateInput(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.exit = m.ctrl.Exit()
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}
	m.status = ""

	if m.ctrl.State().DropdownOpen {
		return m.handleDropdownKey(msg)
	}

	switch msg.String() {
	case "esc":
		return m.run(func(ctx context.Context, c *wizard.Controller) transitionMsg {
			exit, err := c.Retreat(ctx)
			return transitionMsg{exit: exit, err: err}
		})
	case "enter":
		return m.handleEnter()
	}

	s := m.current()
	switch s.Kind {
	case wizard.KindChoice:
		return m.handleChoiceKey(msg, s)
	case wizard.KindContact:
		switch msg.String() {
		case "tab", "down":
			return m.moveFocus(1), nil
		case "shift+tab", "up":
			return m.moveFocus(-1), nil
		case "ctrl+o":
			m.openDropdown()
			return m, nil
		}
	}
	return m.updateInput(msg)
}

func (m Model) handleChoiceKey(msg tea.KeyMsg, s wizard.Step) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(s.Options)-1 {
			m.cursor++
		}
		return m, nil
	}

	key := strings.ToUpper(msg.String())
	if len(key) != 1 {
		return m, nil
	}
	for i, o := range s.Options {
		if o.Key == key {
			m.cursor = i
			return m.selectOption(o)
		}
	}
	return m, nil
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	s := m.current()
	switch s.Kind {
	case wizard.KindWelcome:
		return m.run(func(ctx context.Context, c *wizard.Controller) transitionMsg {
			return transitionMsg{err: c.Continue(ctx)}
		})

	case wizard.KindChoice:
		return m.selectOption(s.Options[m.cursor])

	case wizard.KindText, wizard.KindURL:
		if msg, _ := m.ctrl.Blur(s.Field); msg != "" {
			m.status = msg
			return m, nil
		}
		if !m.ctrl.CanContinue() {
			m.status = "Please fill this in to continue"
			return m, nil
		}
		return m.run(func(ctx context.Context, c *wizard.Controller) transitionMsg {
			return transitionMsg{err: c.Continue(ctx)}
		})

	case wizard.KindContact:
		_, _ = m.ctrl.Blur(m.fields[m.focus])
		return m.run(func(ctx context.Context, c *wizard.Controller) transitionMsg {
			u, err := c.Submit(ctx)
			return transitionMsg{url: u, err: err}
		})

	case wizard.KindHandoff:
		exit, err := m.ctrl.ScheduleLater()
		if err != nil {
			m.status = describe(err)
			return m, nil
		}
		m.exit = exit
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) selectOption(o wizard.Option) (tea.Model, tea.Cmd) {
	return m.run(func(ctx context.Context, c *wizard.Controller) transitionMsg {
		return transitionMsg{err: c.Select(ctx, o.Value)}
	})
}

// run marks the model busy and hands fn to bubbletea so the settle delay does
// not block rendering.
func (m Model) run(fn func(context.Context, *wizard.Controller) transitionMsg) (tea.Model, tea.Cmd) {
	m.busy = true
	ctx, ctrl := m.ctx, m.ctrl
	return m, func() tea.Msg { return fn(ctx, ctrl) }
}

func (m Model) finish(msg transitionMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.url != "" {
		m.url = msg.url
	}
	if msg.exit != wizard.ExitNone {
		m.exit = msg.exit
		return m, tea.Quit
	}
	if msg.err != nil {
		m.status = describe(msg.err)
	}
	m.load()
	return m, nil
}

func describe(err error) string {
	switch {
	case errors.Is(err, wizard.ErrValidation):
		return "Please fix the highlighted fields"
	case errors.Is(err, wizard.ErrStepLocked):
		return "Please complete this step first"
	case errors.Is(err, wizard.ErrTransitioning):
		return "One moment..."
	case errors.Is(err, context.Canceled):
		return "Cancelled"
	}
	return err.Error()
}

func (m Model) moveFocus(delta int) Model {
	if len(m.inputs) == 0 {
		return m
	}
	_, _ = m.ctrl.Blur(m.fields[m.focus])
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}

func (m *Model) openDropdown() {
	if !m.ctrl.ToggleDropdown() {
		return
	}
	code := m.ctrl.State().Answers.CountryCode
	for i, c := range m.countries {
		if c.Code == code {
			m.country = i
			return
		}
	}
	m.country = 0
}

func (m Model) handleDropdownKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.country > 0 {
			m.country--
		}
	case "down", "j":
		if m.country < len(m.countries)-1 {
			m.country++
		}
	case "enter":
		if err := m.ctrl.SelectCountry(m.countries[m.country].Code); err != nil {
			m.status = describe(err)
		}
	case "esc", "ctrl+o":
		m.ctrl.CloseDropdown()
	}
	return m, nil
}

// updateInput feeds msg to the focused text input and mirrors any change into
// the controller. Phone input is reformatted as it is typed.
func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if len(m.inputs) == 0 {
		return m, nil
	}

	field := m.fields[m.focus]
	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	after := m.inputs[m.focus].Value()
	if after == before {
		return m, cmd
	}

	if field != wizard.FieldPhone {
		_ = m.ctrl.SetField(field, after)
		return m, cmd
	}

	// deleting a separator drops the digit in front of it
	digits := wizard.DigitsOnly(after)
	if len(after) < len(before) && digits == wizard.DigitsOnly(before) && digits != "" {
		after = digits[:len(digits)-1]
	}
	m.inputs[m.focus].SetValue(m.ctrl.SetPhone(after))
	m.inputs[m.focus].CursorEnd()
	return m, cmd
}
