package wizard

const (
	// DefaultWebsiteURL is the placeholder the website field starts with.
	DefaultWebsiteURL = "https://"
	// DefaultCountryCode is the domestic calling code.
	DefaultCountryCode = "+1"
)

// Field names as they appear on the wire.
const (
	FieldBusinessType        = "businessType"
	FieldBusinessDescription = "businessDescription"
	FieldProjectType         = "projectType"
	FieldHelpWith            = "helpWith"
	FieldMonthlyRevenue      = "monthlyRevenue"
	FieldWebsiteURL          = "websiteUrl"
	FieldFirstName           = "firstName"
	FieldLastName            = "lastName"
	FieldEmail               = "email"
	FieldPhone               = "phone"
	FieldCountryCode         = "countryCode"
	FieldCompany             = "company"
)

// ContactFields are the fields collected on the contact step, in display order.
var ContactFields = []string{FieldFirstName, FieldLastName, FieldEmail, FieldPhone, FieldCompany}

// Answers holds everything the prospect entered across the wizard.
type Answers struct {
	BusinessType        string `json:"businessType"`
	BusinessDescription string `json:"businessDescription"`
	ProjectType         string `json:"projectType"`
	HelpWith            string `json:"helpWith"`
	MonthlyRevenue      string `json:"monthlyRevenue"`
	WebsiteURL          string `json:"websiteUrl"`
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	CountryCode         string `json:"countryCode"`
	Company             string `json:"company"`
}

// NewAnswers returns a blank record with the website and country defaults applied.
func NewAnswers() Answers {
	return Answers{
		WebsiteURL:  DefaultWebsiteURL,
		CountryCode: DefaultCountryCode,
	}
}

// Get returns the value stored under a wire field name.
func (a *Answers) Get(field string) (string, bool) {
	p := a.ptr(field)
	if p == nil {
		return "", false
	}
	return *p, true
}

// Set writes value under a wire field name. It reports false for unknown fields.
func (a *Answers) Set(field, value string) bool {
	p := a.ptr(field)
	if p == nil {
		return false
	}
	*p = value
	return true
}

func (a *Answers) ptr(field string) *string {
	switch field {
	case FieldBusinessType:
		return &a.BusinessType
	case FieldBusinessDescription:
		return &a.BusinessDescription
	case FieldProjectType:
		return &a.ProjectType
	case FieldHelpWith:
		return &a.HelpWith
	case FieldMonthlyRevenue:
		return &a.MonthlyRevenue
	case FieldWebsiteURL:
		return &a.WebsiteURL
	case FieldFirstName:
		return &a.FirstName
	case FieldLastName:
		return &a.LastName
	case FieldEmail:
		return &a.Email
	case FieldPhone:
		return &a.Phone
	case FieldCountryCode:
		return &a.CountryCode
	case FieldCompany:
		return &a.Company
	default:
		return nil
	}
}

// FullName joins first and last name the way the scheduler expects it.
func (a *Answers) FullName() string {
	return a.FirstName + " " + a.LastName
}
