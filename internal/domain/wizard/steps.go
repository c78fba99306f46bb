package wizard

import (
	"slices"
	"strings"
)

// StepKind tells a presentation layer which control a step needs.
type StepKind string

const (
	KindWelcome StepKind = "welcome"
	KindChoice  StepKind = "choice"
	KindText    StepKind = "text"
	KindURL     StepKind = "url"
	KindContact StepKind = "contact"
	KindHandoff StepKind = "handoff"
)

// Step indices.
const (
	StepWelcome = iota
	StepBusinessType
	StepDescription
	StepProjectType
	StepHelpWith
	StepRevenue
	StepWebsite
	StepContact
	StepScheduler

	StepCount
)

// LastStep is the terminal scheduler handoff.
const LastStep = StepCount - 1

// Errors maps a field name to its current validation message.
// A missing key means the field has no error.
type Errors map[string]string

// Has reports whether field currently carries an error.
func (e Errors) Has(field string) bool {
	return e[field] != ""
}

// Step describes one wizard screen without any rendering concerns.
type Step struct {
	Index    int      `json:"index"`
	Kind     StepKind `json:"kind"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	// Number is the question number shown to the prospect; zero for the welcome screen.
	Number  int      `json:"number,omitempty"`
	Field   string   `json:"field,omitempty"`
	Options []Option `json:"options,omitempty"`

	unlocked func(a *Answers, errs Errors) bool
}

// Unlocked reports whether the step's continue control is available.
func (s Step) Unlocked(a *Answers, errs Errors) bool {
	if s.unlocked == nil {
		return false
	}
	return s.unlocked(a, errs)
}

// HasContinue reports whether the step offers a manual continue control at all.
// Choice steps advance on selection and the handoff step only exits.
func (s Step) HasContinue() bool {
	return s.Kind != KindChoice && s.Kind != KindHandoff
}

var steps = [StepCount]Step{
	{
		Index:    StepWelcome,
		Kind:     KindWelcome,
		Title:    "Let's Transform Your Business",
		Subtitle: "Ready to automate your way to success?",
		unlocked: func(*Answers, Errors) bool { return true },
	},
	{
		Index:    StepBusinessType,
		Kind:     KindChoice,
		Title:    "What type of business do you run?",
		Subtitle: "Help us understand your industry",
		Number:   1,
		Field:    FieldBusinessType,
		Options:  businessTypes,
	},
	{
		Index:    StepDescription,
		Kind:     KindText,
		Title:    "Tell us about your business",
		Subtitle: "What makes your business unique?",
		Number:   2,
		Field:    FieldBusinessDescription,
		unlocked: func(a *Answers, _ Errors) bool { return strings.TrimSpace(a.BusinessDescription) != "" },
	},
	{
		Index:    StepProjectType,
		Kind:     KindChoice,
		Title:    "What type of engagement works best?",
		Subtitle: "Choose your preferred working relationship",
		Number:   3,
		Field:    FieldProjectType,
		Options:  projectTypes,
	},
	{
		Index:    StepHelpWith,
		Kind:     KindText,
		Title:    "What challenges can we solve?",
		Subtitle: "Be specific about your automation needs",
		Number:   4,
		Field:    FieldHelpWith,
		unlocked: func(a *Answers, _ Errors) bool { return strings.TrimSpace(a.HelpWith) != "" },
	},
	{
		Index:    StepRevenue,
		Kind:     KindChoice,
		Title:    "What's your monthly revenue?",
		Subtitle: "This helps us recommend the right solution",
		Number:   5,
		Field:    FieldMonthlyRevenue,
		Options:  revenueRanges,
	},
	{
		Index:    StepWebsite,
		Kind:     KindURL,
		Title:    "Where can we learn more?",
		Subtitle: "Share your website or LinkedIn profile",
		Number:   6,
		Field:    FieldWebsiteURL,
		unlocked: func(a *Answers, errs Errors) bool {
			return strings.TrimSpace(a.WebsiteURL) != "" &&
				a.WebsiteURL != DefaultWebsiteURL &&
				!errs.Has(FieldWebsiteURL)
		},
	},
	{
		Index:    StepContact,
		Kind:     KindContact,
		Title:    "Let's connect!",
		Subtitle: "How should we reach out to you?",
		Number:   7,
		unlocked: contactComplete,
	},
	{
		Index:    StepScheduler,
		Kind:     KindHandoff,
		Title:    "Pick Your Perfect Time",
		Subtitle: "Schedule your free automation consultation",
		Number:   8,
	},
}

func contactComplete(a *Answers, errs Errors) bool {
	for _, f := range ContactFields {
		v, _ := a.Get(f)
		if v == "" || errs.Has(f) {
			return false
		}
	}
	return true
}

// Steps returns the full ordered step sequence. Callers get their own copies.
func Steps() []Step {
	out := make([]Step, StepCount)
	for i, st := range steps {
		out[i] = st.clone()
	}
	return out
}

// StepAt returns the descriptor at index.
func StepAt(index int) (Step, bool) {
	if index < 0 || index >= StepCount {
		return Step{}, false
	}
	return steps[index].clone(), true
}

func (s Step) clone() Step {
	s.Options = slices.Clone(s.Options)
	return s
}

// Progress is the progress bar percentage for index. The welcome screen is 0
// and the handoff screen is 100; questions are spread evenly in between.
func Progress(index int) float64 {
	if index <= StepWelcome {
		return 0
	}
	if index > LastStep {
		index = LastStep
	}
	return float64(index-1) / float64(StepCount-2) * 100
}

// QuestionNumber reports the "Step k of n" counter. It is only shown for the
// question steps, not the welcome or handoff screens.
func QuestionNumber(index int) (k, n int, ok bool) {
	if index <= StepWelcome || index >= LastStep {
		return 0, 0, false
	}
	return index, StepCount - 2, true
}
