package preview

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.Gray{Y: 200})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestIsAccepted(t *testing.T) {
	tests := map[string]bool{
		"chest1.png":  true,
		"CHEST1.PNG":  true,
		"scan.jpeg":   true,
		"scan.jpg":    true,
		"study.dcm":   true,
		"notes.txt":   false,
		"archive.zip": false,
		"noext":       false,
	}

	for name, want := range tests {
		assert.Equal(t, want, IsAccepted(name), name)
	}
}

func TestDecode_PNG(t *testing.T) {
	path := writePNG(t, t.TempDir(), "chest1.png", 16, 8)

	p, err := Decode(context.Background(), path, DefaultMaxBytes)
	require.NoError(t, err)

	assert.Equal(t, "chest1.png", p.Name)
	assert.Equal(t, "image/png", p.MIMEType)
	assert.Equal(t, 16, p.Width)
	assert.Equal(t, 8, p.Height)
	assert.False(t, p.Truncated)
	assert.True(t, strings.HasPrefix(p.DataURI, "data:image/png;base64,"))
	assert.True(t, p.HasDimensions())
}

func TestDecode_OverLimitKeepsDescription(t *testing.T) {
	path := writePNG(t, t.TempDir(), "large.png", 64, 64)

	p, err := Decode(context.Background(), path, 10)
	require.NoError(t, err)

	assert.True(t, p.Truncated)
	assert.Empty(t, p.DataURI)
	assert.Equal(t, "image/png", p.MIMEType)
	assert.Equal(t, 64, p.Width)
}

func TestDecode_NonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "study.dcm")
	require.NoError(t, os.WriteFile(path, []byte("not really dicom"), 0o600))

	p, err := Decode(context.Background(), path, 0)
	require.NoError(t, err)

	assert.False(t, p.HasDimensions())
	assert.NotEmpty(t, p.DataURI)
}

func TestDecode_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Decode(context.Background(), filepath.Join(dir, "missing.png"), 0)
	assert.Error(t, err)

	_, err = Decode(context.Background(), dir, 0)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Decode(ctx, writePNG(t, dir, "a.png", 2, 2), 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDataURI(t *testing.T) {
	assert.Equal(t, "data:text/plain;base64,aGk=", DataURI("text/plain; charset=utf-8", []byte("hi")))
}
