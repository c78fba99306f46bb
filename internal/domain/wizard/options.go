package wizard

import "slices"

// Option is one selectable answer on a choice step.
type Option struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

var businessTypes = []Option{
	{Key: "A", Value: "service", Label: "Service Business"},
	{Key: "B", Value: "ecommerce", Label: "E-commerce"},
	{Key: "C", Value: "software", Label: "Software/SaaS"},
	{Key: "D", Value: "brick-mortar", Label: "Physical Business"},
	{Key: "E", Value: "other", Label: "Other"},
}

var projectTypes = []Option{
	{Key: "A", Value: "one-time", Label: "One-time Project", Description: "Custom solution for specific needs"},
	{Key: "B", Value: "ongoing", Label: "Ongoing Partnership", Description: "Monthly automation service"},
}

// revenueRanges are ordered from lowest to highest bracket.
var revenueRanges = []Option{
	{Key: "A", Value: "<10k", Label: "< $10k"},
	{Key: "B", Value: "10k-25k", Label: "$10k - $25k"},
	{Key: "C", Value: "25k-50k", Label: "$25k - $50k"},
	{Key: "D", Value: "50k-100k", Label: "$50k - $100k"},
	{Key: "E", Value: "100k-200k", Label: "$100k - $200k"},
	{Key: "F", Value: "200k-500k", Label: "$200k - $500k"},
	{Key: "G", Value: ">500k", Label: "> $500K"},
}

// BusinessTypes returns the options of the business type step.
func BusinessTypes() []Option { return slices.Clone(businessTypes) }

func ProjectTypes() []Option { return slices.Clone(projectTypes) }

// RevenueRanges returns the revenue brackets, lowest first.
func RevenueRanges() []Option { return slices.Clone(revenueRanges) }

// optionsFor returns the table backing a choice field, or nil.
func optionsFor(field string) []Option {
	switch field {
	case FieldBusinessType:
		return businessTypes
	case FieldProjectType:
		return projectTypes
	case FieldMonthlyRevenue:
		return revenueRanges
	}
	return nil
}

// FindOption looks an option up by its value or its key letter.
func FindOption(options []Option, v string) (Option, bool) {
	for _, o := range options {
		if o.Value == v || o.Key == v {
			return o, true
		}
	}
	return Option{}, false
}

// Country is one entry of the calling-code selector.
type Country struct {
	Code    string `json:"code"`
	Country string `json:"country"`
	Name    string `json:"name"`
}

var countries = []Country{
	{Code: "+1", Country: "US", Name: "United States"},
	{Code: "+1", Country: "CA", Name: "Canada"},
	{Code: "+44", Country: "GB", Name: "United Kingdom"},
	{Code: "+33", Country: "FR", Name: "France"},
	{Code: "+49", Country: "DE", Name: "Germany"},
	{Code: "+39", Country: "IT", Name: "Italy"},
	{Code: "+34", Country: "ES", Name: "Spain"},
	{Code: "+31", Country: "NL", Name: "Netherlands"},
	{Code: "+41", Country: "CH", Name: "Switzerland"},
	{Code: "+46", Country: "SE", Name: "Sweden"},
	{Code: "+47", Country: "NO", Name: "Norway"},
	{Code: "+45", Country: "DK", Name: "Denmark"},
	{Code: "+358", Country: "FI", Name: "Finland"},
	{Code: "+61", Country: "AU", Name: "Australia"},
	{Code: "+64", Country: "NZ", Name: "New Zealand"},
	{Code: "+81", Country: "JP", Name: "Japan"},
	{Code: "+82", Country: "KR", Name: "South Korea"},
	{Code: "+86", Country: "CN", Name: "China"},
	{Code: "+91", Country: "IN", Name: "India"},
	{Code: "+65", Country: "SG", Name: "Singapore"},
	{Code: "+852", Country: "HK", Name: "Hong Kong"},
	{Code: "+971", Country: "AE", Name: "UAE"},
	{Code: "+966", Country: "SA", Name: "Saudi Arabia"},
	{Code: "+972", Country: "IL", Name: "Israel"},
	{Code: "+90", Country: "TR", Name: "Turkey"},
	{Code: "+7", Country: "RU", Name: "Russia"},
	{Code: "+55", Country: "BR", Name: "Brazil"},
	{Code: "+52", Country: "MX", Name: "Mexico"},
	{Code: "+54", Country: "AR", Name: "Argentina"},
	{Code: "+56", Country: "CL", Name: "Chile"},
	{Code: "+57", Country: "CO", Name: "Colombia"},
	{Code: "+27", Country: "ZA", Name: "South Africa"},
	{Code: "+20", Country: "EG", Name: "Egypt"},
	{Code: "+234", Country: "NG", Name: "Nigeria"},
	{Code: "+254", Country: "KE", Name: "Kenya"},
}

// Countries returns the calling-code catalogue in selector order.
func Countries() []Country { return slices.Clone(countries) }

// KnownCountryCode reports whether code is offered by the selector.
func KnownCountryCode(code string) bool {
	for _, c := range countries {
		if c.Code == code {
			return true
		}
	}
	return false
}
