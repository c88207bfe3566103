package preview

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder for DecodeConfig
	_ "image/png"  // register decoder for DecodeConfig
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/samber/lo"
)

// DefaultMaxBytes bounds the data kept in memory for a preview
const DefaultMaxBytes int64 = 10 * 1024 * 1024

// sniffLen is how much of the file is read for type detection when the
// content itself is not loaded
const sniffLen = 3072

// AcceptedExtensions is the advisory picker filter
var AcceptedExtensions = []string{".jpg", ".jpeg", ".png", ".dcm"}

// IsAccepted reports whether name has one of AcceptedExtensions.
// It is a hint for pickers and watchers, not a validation rule.
func IsAccepted(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return lo.Contains(AcceptedExtensions, ext)
}

// Preview is the displayable form of a selected file
type Preview struct {
	Name     string
	MIMEType string
	Size     int64
	Width    int
	Height   int

	// DataURI is empty when Truncated is set
	DataURI   string
	Truncated bool
}

// HasDimensions reports whether width and height were decoded
func (p *Preview) HasDimensions() bool {
	return p.Width > 0 && p.Height > 0
}

// Decode reads path into a Preview. Files larger than maxBytes still get a
// preview, just without the data URI. maxBytes <= 0 disables the bound.
func Decode(ctx context.Context, path string, maxBytes int64) (*Preview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// #nosec G304 - path is the file the user explicitly selected
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	p := &Preview{
		Name: filepath.Base(path),
		Size: info.Size(),
	}

	if maxBytes > 0 && info.Size() > maxBytes {
		p.Truncated = true
		return p, describeHead(ctx, f, p)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.MIMEType = mimetype.Detect(data).String()
	p.Width, p.Height = dimensions(bytes.NewReader(data))
	p.DataURI = DataURI(p.MIMEType, data)
	return p, nil
}

// describeHead fills type and dimensions from the start of the file only
func describeHead(ctx context.Context, f *os.File, p *Preview) error {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return fmt.Errorf("failed to read %s: %w", p.Name, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p.MIMEType = mimetype.Detect(head[:n]).String()

	if _, err := f.Seek(0, io.SeekStart); err == nil {
		p.Width, p.Height = dimensions(f)
	}
	return nil
}

func dimensions(r io.Reader) (int, int) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

// DataURI encodes data as an RFC 2397 data URI
func DataURI(mimeType string, data []byte) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
