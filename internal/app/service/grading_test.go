package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "42", "42"},
		{"trailing newline", "42\n", "42"},
		{"several trailing newlines", "42\n\n\n", "42"},
		{"crlf", "a\r\nb\r\n", "a\nb"},
		{"trailing spaces per line", "a  \nb\t\n", "a\nb"},
		{"interior whitespace kept", "a b\nc", "a b\nc"},
		{"case kept", "Answer", "Answer"},
		{"empty", "", ""},
		{"only whitespace", "  \n\t\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestGrade(t *testing.T) {
	assert.True(t, Grade("42\n", "42"))
	assert.True(t, Grade("line1\r\nline2", "line1\nline2\n"))
	assert.False(t, Grade("43", "42"))
	assert.False(t, Grade("4 2", "42"), "interior whitespace is significant")
	assert.False(t, Grade("ANSWER", "answer"), "case is significant")
}
