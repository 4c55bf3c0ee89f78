package validator

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// ValidateClock reports whether s is a zero-padded 24h HH:MM wall-clock time.
func ValidateClock(s string) bool {
	return clockRegex.MatchString(s)
}

func ParseDate(s string) (time.Time, bool) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func ValidateDate(s string) bool {
	_, ok := ParseDate(s)
	return ok
}

// ClockBefore compares two valid HH:MM strings. Zero padding makes the
// lexical order match the chronological one.
func ClockBefore(a, b string) bool {
	return a < b
}

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// NormalizePhone parses phone against region and returns it in E.164.
func NormalizePhone(phone, region string) (string, bool) {
	num, err := phonenumbers.Parse(phone, strings.ToUpper(region))
	if err != nil {
		return "", false
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", false
	}
	return phonenumbers.Format(num, phonenumbers.E164), true
}

func ValidateNamePart(name string) bool {
	if len(strings.TrimSpace(name)) < 1 {
		return false
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && r != '-' && r != ' ' && r != '\'' {
			return false
		}
	}

	return true
}

func FormatName(name string) string {
	parts := strings.Fields(name)
	for i, part := range parts {
		subparts := strings.Split(part, "-")
		for j, subpart := range subparts {
			runes := []rune(subpart)
			if len(runes) > 0 {
				subparts[j] = strings.ToUpper(string(runes[:1])) + strings.ToLower(string(runes[1:]))
			}
		}
		parts[i] = strings.Join(subparts, "-")
	}

	return strings.Join(parts, " ")
}
