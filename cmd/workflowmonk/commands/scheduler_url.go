package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"workflowmonk/internal/domain/wizard"
)

// SchedulerURL returns the command that prints a prefilled booking link
// without running the wizard.
func SchedulerURL() *cobra.Command {
	a := wizard.NewAnswers()
	var base string

	cmd := &cobra.Command{
		Use:   "scheduler-url",
		Short: "Print the prefilled booking link for a set of answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkAnswers(&a); err != nil {
				return err
			}
			a.Phone = wizard.FormatPhone(a.Phone, a.CountryCode)
			fmt.Fprintln(cmd.OutOrStdout(), wizard.SchedulerURL(base, a))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&base, "base", wizard.DefaultSchedulerURL, "Booking page base URL")
	f.StringVar(&a.FirstName, "first-name", "", "Contact first name")
	f.StringVar(&a.LastName, "last-name", "", "Contact last name")
	f.StringVar(&a.Email, "email", "", "Contact email")
	f.StringVar(&a.Phone, "phone", "", "Contact phone number")
	f.StringVar(&a.CountryCode, "country-code", wizard.DefaultCountryCode, "Calling code")
	f.StringVar(&a.Company, "company", "", "Company name")
	f.StringVar(&a.BusinessType, "business-type", "", "Business type (service, ecommerce, software, brick-mortar, other)")
	f.StringVar(&a.ProjectType, "project-type", "", "Engagement (one-time, ongoing)")
	f.StringVar(&a.MonthlyRevenue, "revenue", "", "Monthly revenue range")
	f.StringVar(&a.WebsiteURL, "website", wizard.DefaultWebsiteURL, "Website or LinkedIn URL")
	f.StringVar(&a.HelpWith, "help-with", "", "What the automation should solve")
	f.StringVar(&a.BusinessDescription, "about", "", "Short business description")

	return cmd
}

// checkAnswers applies the wizard's own field rules and resolves option keys
// to their values.
func checkAnswers(a *wizard.Answers) error {
	problems := map[string]string{}
	for _, f := range append([]string{wizard.FieldWebsiteURL}, wizard.ContactFields...) {
		v, _ := a.Get(f)
		if msg := wizard.ValidateField(f, v); msg != "" {
			problems[f] = msg
		}
	}

	choices := []struct {
		field   string
		options []wizard.Option
	}{
		{wizard.FieldBusinessType, wizard.BusinessTypes()},
		{wizard.FieldProjectType, wizard.ProjectTypes()},
		{wizard.FieldMonthlyRevenue, wizard.RevenueRanges()},
	}
	for _, ch := range choices {
		v, _ := a.Get(ch.field)
		if v == "" {
			continue
		}
		opt, ok := wizard.FindOption(ch.options, v)
		if !ok {
			problems[ch.field] = fmt.Sprintf("%q is not one of the offered options", v)
			continue
		}
		a.Set(ch.field, opt.Value)
	}

	if !wizard.KnownCountryCode(a.CountryCode) {
		problems[wizard.FieldCountryCode] = fmt.Sprintf("unknown calling code %q", a.CountryCode)
	}

	if len(problems) == 0 {
		return nil
	}
	keys := make([]string, 0, len(problems))
	for k := range problems {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+": "+problems[k])
	}
	return errors.New("invalid answers:\n  " + strings.Join(lines, "\n  "))
}
