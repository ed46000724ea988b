package mask

import "strings"

// Contact returns a partially redacted display form of a canonical contact
// string: "+15551234567" -> "+*******4567", "alice@example.com" -> "a***@example.com".
func Contact(contact string) string {
	if contact == "" {
		return ""
	}

	if at := strings.Index(contact, "@"); at > 0 {
		return contact[:1] + "***" + contact[at:]
	}

	if len(contact) <= 4 {
		return strings.Repeat("*", len(contact))
	}

	visible := contact[len(contact)-4:]
	prefix := ""
	body := contact[:len(contact)-4]
	if strings.HasPrefix(body, "+") {
		prefix = "+"
		body = body[1:]
	}

	return prefix + strings.Repeat("*", len(body)) + visible
}
