package wizard

import (
	"net/url"
	"strings"
)

// DefaultSchedulerURL is the booking page the handoff step embeds.
const DefaultSchedulerURL = "https://cal.com/ritwik-singh/30min"

// SchedulerURL prefills the external booking page with the collected answers.
// Parameter order is fixed; url.Values would sort the keys.
func SchedulerURL(base string, a Answers) string {
	params := [][2]string{
		{"name", a.FullName()},
		{"email", a.Email},
		{"company", a.Company},
		{"phonenumber", a.CountryCode + " " + a.Phone},
		{"custom_businessType", a.BusinessType},
		{"custom_projectType", a.ProjectType},
		{"custom_monthlyRevenue", a.MonthlyRevenue},
		{"custom_websiteUrl", a.WebsiteURL},
		{"custom_helpwith", a.HelpWith},
		{"custom_aboutBusiness", a.BusinessDescription},
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteByte('?')
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p[0]))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[1]))
	}
	return b.String()
}
