package access

import (
	"testing"

	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/stretchr/testify/assert"
)

func TestCanRead(t *testing.T) {
	private := &models.File{UserID: 1, Type: models.FileTypeFile}
	public := &models.File{UserID: 1, Type: models.FileTypeFile, IsPublic: true}

	tests := []struct {
		name      string
		file      *models.File
		requester int64
		want      bool
	}{
		{"owner private", private, 1, true},
		{"stranger private", private, 2, false},
		{"anonymous private", private, Anonymous, false},
		{"stranger public", public, 2, true},
		{"anonymous public", public, Anonymous, true},
		{"nil file", nil, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanRead(tt.file, tt.requester))
		})
	}
}

func TestCanModify(t *testing.T) {
	f := &models.File{UserID: 1, IsPublic: true}
	assert.True(t, CanModify(f, 1))
	assert.False(t, CanModify(f, 2))
	assert.False(t, CanModify(f, Anonymous))
	assert.False(t, CanModify(nil, 1))
}

func TestCanCreateUnder(t *testing.T) {
	folder := &models.File{UserID: 1, Type: models.FileTypeFolder}
	file := &models.File{UserID: 1, Type: models.FileTypeFile}

	assert.True(t, CanCreateUnder(nil, 1))
	assert.False(t, CanCreateUnder(nil, Anonymous))
	assert.True(t, CanCreateUnder(folder, 1))
	assert.False(t, CanCreateUnder(folder, 2))
	assert.False(t, CanCreateUnder(file, 1))
}
