package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileType(t *testing.T) {
	tests := []struct {
		t          FileType
		valid      bool
		hasContent bool
	}{
		{FileTypeFolder, true, false},
		{FileTypeFile, true, true},
		{FileTypeImage, true, true},
		{FileType("video"), false, false},
		{FileType(""), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.t), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.t.Valid())
			assert.Equal(t, tt.hasContent, tt.t.HasContent())
		})
	}
}

func TestFile_IsFolder(t *testing.T) {
	assert.True(t, (&File{Type: FileTypeFolder}).IsFolder())
	assert.False(t, (&File{Type: FileTypeImage}).IsFolder())
}

func TestRenditionKey(t *testing.T) {
	assert.Equal(t, "files/2025/1/2/abc_250", RenditionKey("files/2025/1/2/abc", 250))
}
