package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Autumn Invitational", "autumn-invitational"},
		{"  CS2 Masters 2026  ", "cs2-masters-2026"},
		{"Team!!!Alpha", "team-alpha"},
		{"--already--dashed--", "already-dashed"},
		{"Ünïcode Name", "n-code-name"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "Slugify(%q)", tc.in)
	}
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("captain@alpha.gg"))
	assert.True(t, IsValidEmail("first.last+tag@example.co.uk"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("missing@tld"))
	assert.False(t, IsValidEmail("@example.com"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	assert.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, CheckPasswordHash("wrong password", hash))
}
