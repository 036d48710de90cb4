package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatLineRef(t *testing.T) {
	date := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "chase_20250103_GITHUB", FormatLineRef("chase", date, "GITHUB"))
	assert.Equal(t, "chase_20250103_", FormatLineRef("chase", date, ""))
}

func TestFormatSeqRef(t *testing.T) {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "line_20250115_2", FormatSeqRef("line", date, 2))
}

func TestSlug(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"GITHUB *PRO SUBSCRIPTION", "GITHUBPROS"},
		{"CUSTOMER DEPOSIT", "CUSTOMERDE"},
		{"ATM", "ATM"},
		{"Café 42", "Caf42"},
		{"*** ---", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.desc), "Slug(%q)", tt.desc)
	}
}

func TestRefs_Next(t *testing.T) {
	var refs Refs
	got := []string{
		refs.Next("chase_20250103_GITHUBPROS"),
		refs.Next("chase_20250103_GITHUBPROS"),
		refs.Next("chase_20250104_ATM"),
		refs.Next("chase_20250103_GITHUBPROS"),
	}
	assert.Equal(t, []string{
		"chase_20250103_GITHUBPROS",
		"chase_20250103_GITHUBPROS_2",
		"chase_20250104_ATM",
		"chase_20250103_GITHUBPROS_3",
	}, got)
}

func TestRefs_SkipsTakenSuffix(t *testing.T) {
	var refs Refs
	assert.Equal(t, "A_2", refs.Next("A_2"))
	assert.Equal(t, "A", refs.Next("A"))
	assert.Equal(t, "A_3", refs.Next("A"))
}
