package wizard

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf16"
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	linkedinRe = regexp.MustCompile(`(?i)^(https?://)?(www\.)?linkedin\.com/in/[\w-]+/?$`)
	domainRe   = regexp.MustCompile(`(?i)^(https?://)?(www\.)?[\w-]+\.[\w-]+(\.[\w-]+)*/?$`)
	nonDigitRe = regexp.MustCompile(`\D`)
)

const minPhoneDigits = 7

// ValidateField returns a human readable error for value, or "" when it is acceptable.
// Fields without a rule always pass.
func ValidateField(field, value string) string {
	trimmed := strings.TrimSpace(value)

	switch field {
	case FieldEmail:
		if trimmed == "" {
			return "Email is required"
		}
		if !emailRe.MatchString(value) {
			return "Please enter a valid email address"
		}
	case FieldWebsiteURL:
		if value != "" && value != DefaultWebsiteURL && !validWebsite(value) {
			return "Please enter a valid website URL or LinkedIn profile"
		}
	case FieldFirstName:
		return nameError("First name", trimmed)
	case FieldLastName:
		return nameError("Last name", trimmed)
	case FieldCompany:
		if trimmed == "" {
			return "Company name is required"
		}
	case FieldPhone:
		if trimmed == "" {
			return "Phone number is required"
		}
		if len(DigitsOnly(value)) < minPhoneDigits {
			return "Please enter a valid phone number"
		}
	}
	return ""
}

func nameError(label, trimmed string) string {
	if trimmed == "" {
		return label + " is required"
	}
	if utf16Len(trimmed) < 2 {
		return label + " must be at least 2 characters"
	}
	return ""
}

// validWebsite accepts absolute http(s) URLs, LinkedIn profile paths and bare
// domains. Surrounding blanks are ignored and the slashes after an http(s)
// scheme are optional, the way browsers parse a typed address.
func validWebsite(raw string) bool {
	v := strings.TrimSpace(raw)
	if i := strings.IndexByte(v, ':'); i > 0 {
		scheme := strings.ToLower(v[:i])
		if scheme == "http" || scheme == "https" {
			rest := strings.TrimLeft(v[i+1:], `/\`)
			if u, err := url.Parse(scheme + "://" + rest); err == nil && u.Host != "" {
				return true
			}
		}
	}
	return linkedinRe.MatchString(v) || domainRe.MatchString(v)
}

// utf16Len counts UTF-16 code units, so a character outside the BMP counts twice.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// DigitsOnly strips every non-digit character.
func DigitsOnly(s string) string {
	return nonDigitRe.ReplaceAllString(s, "")
}
