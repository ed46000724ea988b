package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContact(t *testing.T) {
	cases := []struct {
		name    string
		contact string
		want    string
	}{
		{"phone", "+15551234567", "+*******4567"},
		{"email", "alice@example.com", "a***@example.com"},
		{"short", "+123", "****"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Contact(tc.contact))
		})
	}
}
