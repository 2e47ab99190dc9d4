package chart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/domain"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRenderPNG(t *testing.T) {
	r := NewBarRenderer(0, 0)
	assert.Equal(t, 600, r.Width)
	assert.Equal(t, 400, r.Height)

	png, err := r.Render([]domain.GroupCount{{Label: "done", Count: 1}, {Label: "new", Count: 2}}, domain.GroupByStatus)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRenderSingleGroup(t *testing.T) {
	png, err := NewBarRenderer(300, 200).Render([]domain.GroupCount{{Label: "Unspecified", Count: 1}}, domain.GroupByTopic)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRenderEmpty(t *testing.T) {
	_, err := NewBarRenderer(0, 0).Render(nil, domain.GroupByStatus)
	assert.ErrorIs(t, err, ErrNoData)
}
