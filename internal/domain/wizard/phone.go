package wizard

// FormatPhone groups the digits of raw for display.
//
// The domestic code gets the (ddd) ddd-dddd mask and only the first ten digits
// are shown. Every other code is grouped as "ddd ddd rest". A separator is
// only emitted once a digit follows it, so "555123" renders as "(555) 123".
func FormatPhone(raw, countryCode string) string {
	d := DigitsOnly(raw)
	n := len(d)

	if countryCode == DefaultCountryCode {
		switch {
		case n >= 10:
			return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:10]
		case n > 6:
			return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
		case n > 3:
			return "(" + d[:3] + ") " + d[3:]
		case n == 3:
			return "(" + d + ")"
		}
		return d
	}

	switch {
	case n > 6:
		return d[:3] + " " + d[3:6] + " " + d[6:]
	case n > 3:
		return d[:3] + " " + d[3:]
	}
	return d
}
