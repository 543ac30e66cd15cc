package domain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentSnapshot_IsUntitled(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		untitled bool
	}{
		{"bare name", "untitled-1", true},
		{"bare name with extension", "scratch.txt", true},
		{"relative path", filepath.Join("src", "main.go"), false},
		{"absolute path", "/etc/hosts", false},
		{"nested path", filepath.Join("a", "b", "c.txt"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DocumentSnapshot{Path: tt.path}
			assert.Equal(t, tt.untitled, s.IsUntitled())
		})
	}
}

func TestDocumentSnapshot_BaseName(t *testing.T) {
	s := DocumentSnapshot{Path: filepath.Join("src", "main.go")}
	assert.Equal(t, "main.go", s.BaseName())

	s = DocumentSnapshot{Path: "untitled-1"}
	assert.Equal(t, "untitled-1", s.BaseName())
}

func TestFilterMode_IsValid(t *testing.T) {
	assert.True(t, FilterAll.IsValid())
	assert.True(t, FilterUntitledOnly.IsValid())
	assert.False(t, FilterMode("bogus").IsValid())
}

func TestFilterMode_Accepts(t *testing.T) {
	untitled := DocumentSnapshot{Path: "untitled-1"}
	qualified := DocumentSnapshot{Path: filepath.Join("src", "main.go")}

	assert.True(t, FilterAll.Accepts(untitled))
	assert.True(t, FilterAll.Accepts(qualified))
	assert.True(t, FilterUntitledOnly.Accepts(untitled))
	assert.False(t, FilterUntitledOnly.Accepts(qualified))
}
