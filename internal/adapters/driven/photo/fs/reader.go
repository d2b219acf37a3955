// Package fs reads photos from the local filesystem into data URL references.
package fs

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driven"
)

// DefaultMaxBytes caps the size of a single photo.
const DefaultMaxBytes = 10 << 20

// Reader implements driven.PhotoReader.
type Reader struct {
	maxBytes int64
}

var _ driven.PhotoReader = (*Reader)(nil)

// NewReader creates a reader. maxBytes <= 0 selects DefaultMaxBytes.
func NewReader(maxBytes int64) *Reader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Reader{maxBytes: maxBytes}
}

// Read loads the file and encodes it as a base64 data URL. Non-image
// content is rejected with domain.ErrInvalidInput.
func (r *Reader) Read(ctx context.Context, file domain.FileHandle) (domain.PhotoRef, error) {
	if err := ctx.Err(); err != nil {
		return domain.PhotoRef{}, err
	}
	if file.Path == "" {
		return domain.PhotoRef{}, fmt.Errorf("%w: empty photo path", domain.ErrInvalidInput)
	}

	f, err := os.Open(file.Path)
	if err != nil {
		return domain.PhotoRef{}, fmt.Errorf("opening photo: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, r.maxBytes+1))
	if err != nil {
		return domain.PhotoRef{}, fmt.Errorf("reading photo: %w", err)
	}
	if int64(len(data)) > r.maxBytes {
		return domain.PhotoRef{}, fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrInvalidInput, file.Path, r.maxBytes)
	}

	mimeType := contentType(file, data)
	if !strings.HasPrefix(mimeType, "image/") {
		return domain.PhotoRef{}, fmt.Errorf("%w: %s is %s, not an image", domain.ErrInvalidInput, file.Path, mimeType)
	}

	name := file.Name
	if name == "" {
		name = filepath.Base(file.Path)
	}
	return domain.PhotoRef{
		DataURL: DataURL(mimeType, data),
		Name:    name,
	}, nil
}

// DataURL renders data as a base64 data URL.
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func contentType(file domain.FileHandle, data []byte) string {
	if file.MIMEType != "" {
		return file.MIMEType
	}
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(file.Path))); t != "" {
		mediaType, _, err := mime.ParseMediaType(t)
		if err == nil {
			return mediaType
		}
	}
	return http.DetectContentType(data)
}
