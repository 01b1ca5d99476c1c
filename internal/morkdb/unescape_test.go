package morkdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnescape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "John Doe", "John Doe"},
		{"empty", "", ""},
		{"hex_paren", "smile$29", "smile)"},
		{"hex_space", "a$20b", "a b"},
		{"hex_lowercase", "$2a", "*"},
		{"hex_utf8_pair", "Caf$C3$A9", "Café"},
		{"backslash_paren", `smile\)`, "smile)"},
		{"backslash_backslash", `a\\b`, `a\b`},
		{"backslash_dollar", `cost\$5`, "cost$5"},
		{"continuation_lf", "one\\\ntwo", "onetwo"},
		{"continuation_crlf", "one\\\r\ntwo", "onetwo"},
		{"trailing_backslash", `oops\`, `oops\`},
		{"dollar_no_digits", "100$", "100$"},
		{"dollar_one_digit", "$4x", "$4x"},
		{"dollar_bad_digits", "$zz", "$zz"},
		{"mixed", `a$20\)b$29`, "a )b)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Unescape(tc.input))
		})
	}
}
