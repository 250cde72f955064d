// Package attach converts a selected binary file into a transportable
// (base64, mime type) payload for the generation request. Exactly one handle
// is produced per invocation; handles are never cached or reused.
package attach

import (
	"encoding/base64"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"coddify/internal/logger"
	"coddify/pkg/tutortypes"
)

// ReadFileFunc is the external file-reading capability the encoder depends
// on. Production uses os.ReadFile; tests inject failures.
type ReadFileFunc func(path string) ([]byte, error)

// Encoder produces attachment handles from files.
type Encoder struct {
	readFile ReadFileFunc
}

// NewEncoder creates an encoder backed by the local filesystem.
func NewEncoder() *Encoder {
	return &Encoder{readFile: os.ReadFile}
}

// NewEncoderWithReader creates an encoder with an injected read capability.
func NewEncoderWithReader(readFile ReadFileFunc) *Encoder {
	return &Encoder{readFile: readFile}
}

// Encode reads the file and returns a one-use handle. A read failure is
// returned as an AttachmentError so the controller can short-circuit the
// submission before any network activity.
func (e *Encoder) Encode(path string) (*tutortypes.AttachmentHandle, error) {
	data, err := e.readFile(path)
	if err != nil {
		logger.Error("Attachment read failed", "path", path, "error", err)
		return nil, &tutortypes.AttachmentError{Err: err}
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	logger.Debug("Attachment encoded", "path", path, "bytes", len(data), "mime_type", mimeType)
	return &tutortypes.AttachmentHandle{
		Base64Data: base64.StdEncoding.EncodeToString(data),
		MIMEType:   mimeType,
	}, nil
}
