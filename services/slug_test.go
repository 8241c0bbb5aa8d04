package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple name", "My Cool Idea", "my-cool-idea"},
		{"trailing space", "My Cool Idea ", "my-cool-idea"},
		{"punctuation collapses", "Go!  Fast & Furious", "go-fast-furious"},
		{"leading symbols trimmed", "--hello--", "hello"},
		{"digits survive", "Project 42", "project-42"},
		{"unicode drops out", "café ☕ time", "caf-time"},
		{"only symbols", "!!!", ""},
		{"whitespace only", "   ", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	names := []string{"My Cool Idea", "Go! Fast", "a-b-c", "Project 42"}
	for _, name := range names {
		first := Slugify(name)
		assert.Equal(t, first, Slugify(name), "same name must always give the same slug")
		assert.Equal(t, first, Slugify(first), "slugifying a slug must be a no-op")
	}
}

func TestSlugWithIDSuffix(t *testing.T) {
	id := uuid.MustParse("abcdef12-3456-7890-abcd-ef1234567890")
	assert.Equal(t, "my-cool-idea-abcdef", SlugWithIDSuffix("my-cool-idea", id))
}
