package tui

import (
	"fmt"
	"strings"

	"workflowmonk/internal/domain/wizard"
)

func (m Model) View() string {
	if m.exit != wizard.ExitNone {
		return ""
	}

	st := m.ctrl.State()
	s := m.current()

	var b strings.Builder
	b.WriteString(m.bar.ViewAs(wizard.Progress(st.Step) / 100))
	b.WriteString("\n")
	if k, n, ok := wizard.QuestionNumber(st.Step); ok {
		b.WriteString(m.styles.counter.Render(fmt.Sprintf("Step %d of %d", k, n)))
	}
	b.WriteString("\n\n")

	b.WriteString(m.styles.title.Render(s.Title))
	b.WriteString("\n")
	if s.Subtitle != "" {
		b.WriteString(m.styles.subtitle.Render(s.Subtitle))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch s.Kind {
	case wizard.KindWelcome:
		b.WriteString("Answer a few quick questions and book a free consultation.\n")
	case wizard.KindChoice:
		m.viewOptions(&b, s)
	case wizard.KindText, wizard.KindURL:
		m.viewInputs(&b, st)
	case wizard.KindContact:
		m.viewInputs(&b, st)
		if st.DropdownOpen {
			m.viewCountries(&b)
		}
	case wizard.KindHandoff:
		u := m.url
		if u == "" {
			u = st.SchedulerURL
		}
		b.WriteString(m.styles.ok.Render("Thanks " + st.Answers.FirstName + "! Book your call here:"))
		b.WriteString("\n")
		b.WriteString(m.styles.label.Render(u))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.err.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render(m.helpLine(s, st)))

	return m.styles.frame.Render(b.String())
}

func (m Model) viewOptions(b *strings.Builder, s wizard.Step) {
	for i, o := range s.Options {
		line := fmt.Sprintf("[%s] %s", o.Key, o.Label)
		if o.Description != "" {
			line += "  " + m.styles.subtitle.Render(o.Description)
		}
		if i == m.cursor {
			b.WriteString(m.styles.selected.Render("> " + line))
		} else {
			b.WriteString(m.styles.option.Render("  " + line))
		}
		b.WriteString("\n")
	}
}

func (m Model) viewInputs(b *strings.Builder, st wizard.State) {
	for i, f := range m.fields {
		label := fieldLabels[f]
		if f == wizard.FieldPhone {
			label += " (" + st.Answers.CountryCode + ")"
		}
		b.WriteString(m.styles.label.Render(label))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
		if msg := st.Errors[f]; msg != "" {
			b.WriteString(m.styles.err.Render(msg))
			b.WriteString("\n")
		}
	}
}

func (m Model) viewCountries(b *strings.Builder) {
	const window = 8
	start := m.country - window/2
	if start < 0 {
		start = 0
	}
	end := min(start+window, len(m.countries))
	b.WriteString("\n")
	for i := start; i < end; i++ {
		c := m.countries[i]
		line := fmt.Sprintf("%s %s %s", c.Country, c.Code, c.Name)
		if i == m.country {
			b.WriteString(m.styles.selected.Render("> " + line))
		} else {
			b.WriteString(m.styles.option.Render("  " + line))
		}
		b.WriteString("\n")
	}
}

func (m Model) helpLine(s wizard.Step, st wizard.State) string {
	switch {
	case st.DropdownOpen:
		return "up/down: choose country  enter: select  esc: close"
	case s.Kind == wizard.KindChoice:
		return "up/down or letter: choose  enter: select  esc: back  ctrl+c: quit"
	case s.Kind == wizard.KindContact:
		return "tab: next field  ctrl+o: country code  enter: submit  esc: back"
	case s.Kind == wizard.KindHandoff:
		return "enter: schedule later  esc: back  ctrl+c: quit"
	}
	return "enter: continue  esc: back  ctrl+c: quit"
}
