// Package upload reads user-supplied text files.
// An Upload is produced either from a multipart form part (web UI) or from a
// local path (CLI); both are read the same way by ReadText.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Extension is the only accepted file extension.
const Extension = ".txt"

var (
	// ErrUnsupportedType indicates a file that is not a .txt file or whose
	// content is not plain text.
	ErrUnsupportedType = errors.New("upload is not a plain text file")

	// ErrRead indicates the upload could not be opened or read.
	ErrRead = errors.New("upload could not be read")
)

// Upload is a file handed to the analyzer.
type Upload struct {
	// Name is the client-side file name; only its extension is used.
	Name string
	Open func() (io.ReadCloser, error)
}

// FromFileHeader wraps a multipart form file.
func FromFileHeader(fh *multipart.FileHeader) *Upload {
	return &Upload{
		Name: fh.Filename,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// FromPath wraps a file on the local file system.
func FromPath(path string) *Upload {
	return &Upload{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) {
			// #nosec G304 -- path is chosen by the local CLI user
			return os.Open(path)
		},
	}
}

// FromBytes wraps in-memory content.
func FromBytes(name string, content []byte) *Upload {
	return &Upload{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

// CheckName reports ErrUnsupportedType unless name ends in .txt (any case).
func CheckName(name string) error {
	if !strings.EqualFold(filepath.Ext(name), Extension) {
		return fmt.Errorf("%w: %q does not have a %s extension", ErrUnsupportedType, name, Extension)
	}
	return nil
}

// ReadText reads the whole upload and returns it as UTF-8 text.
//
// The content must be detected as text/plain (or a subtype of it). A leading
// byte order mark is honoured and stripped; invalid UTF-8 sequences are
// replaced with U+FFFD. No size limit is applied here.
func ReadText(u *Upload) (string, error) {
	if err := CheckName(u.Name); err != nil {
		return "", err
	}

	rc, err := u.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", ErrRead, u.Name, err)
	}
	defer func() { _ = rc.Close() }()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", ErrRead, u.Name, err)
	}

	if len(raw) == 0 {
		return "", nil
	}

	if mt := mimetype.Detect(raw); !isPlainText(mt) {
		return "", fmt.Errorf("%w: %s detected as %s", ErrUnsupportedType, u.Name, mt.String())
	}

	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return "", fmt.Errorf("%w: decode %s: %w", ErrRead, u.Name, err)
	}

	return string(decoded), nil
}

func isPlainText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
