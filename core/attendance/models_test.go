package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Present", StatusPresent, true},
		{"present", StatusPresent, true},
		{"  ABSENT ", StatusAbsent, true},
		{"late", StatusLate, true},
		{"excused", StatusExcused, true},
		{"P", "", false},
		{"holiday", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseStatus(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
