package validation

import "regexp"

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	// Nigerian MSISDN: 0XXXXXXXXXX or +234XXXXXXXXXX
	phoneRegex = regexp.MustCompile(`^(\+234|0)[789][01]\d{8}$`)
	// NUBAN account numbers are exactly 10 digits
	accountNumberRegex = regexp.MustCompile(`^\d{10}$`)
)
