package domain

import (
	"errors"
	"regexp"
	"strings"
)

type ContactKind string

const (
	ContactEmail ContactKind = "email"
	ContactPhone ContactKind = "phone"
)

var ErrInvalidContact = errors.New("invalid contact")

var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

// NormalizeContact brings a contact method to canonical form: lowercase trimmed
// for emails, E.164 for phone numbers.
func NormalizeContact(raw string) (string, ContactKind, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", "", ErrInvalidContact
	}

	if strings.Contains(trimmed, "@") {
		email := strings.ToLower(trimmed)
		if !strings.Contains(email[strings.Index(email, "@"):], ".") {
			return "", "", ErrInvalidContact
		}
		return email, ContactEmail, nil
	}

	phone := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(trimmed)
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}
	if !e164Pattern.MatchString(phone) {
		return "", "", ErrInvalidContact
	}
	return phone, ContactPhone, nil
}

func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
