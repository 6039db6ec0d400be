package validator

import (
	"strings"
	"testing"
)

func TestTelegramHandleRegex(t *testing.T) {
	valid := []string{"alice", "@alice", "some_user_123", "ABCDE", "@a_b_c_d_e"}
	for _, handle := range valid {
		if !telegramHandleRegex.MatchString(strings.TrimPrefix(handle, "@")) {
			t.Errorf("expected %q to be valid", handle)
		}
	}

	invalid := []string{"", "@", "abc", "has space", "bad!char", strings.Repeat("a", 33)}
	for _, handle := range invalid {
		if telegramHandleRegex.MatchString(strings.TrimPrefix(handle, "@")) {
			t.Errorf("expected %q to be invalid", handle)
		}
	}
}
