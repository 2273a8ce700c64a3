package asset

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrNotImage = errors.New("content is not an image")

type ErrMimeTypeNotSupported struct {
	MimeType *mimetype.MIME
}

func (e *ErrMimeTypeNotSupported) Error() string {
	return fmt.Sprintf("mime type of the file is not supported: %s", e.MimeType)
}

// Image is a single selected image, ready for OCR and PDF embedding.
// Immutable once created. Slice order defines page order downstream.
type Image struct {
	// Location the image was loaded from. Used in errors and logs only.
	URI string `json:"uri"`
	// Detected mime type, for example "image/png".
	MimeType string `json:"mimeType"`
	// Image content encoded as standard base64.
	Base64Payload string `json:"base64Payload"`
	// Pixel size when the payload could be decoded, 0 otherwise.
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DataURI renders the image as a self contained data URI suitable for
// embedding into HTML.
func (img Image) DataURI() string {
	return "data:" + img.MimeType + ";base64," + img.Base64Payload
}

// Bytes decodes the base64 payload back into raw image bytes.
func (img Image) Bytes() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(img.Base64Payload)
	if err != nil {
		return nil, errors.Join(errors.New("failed to decode base64 payload"), err)
	}
	return data, nil
}

// FromBytes builds an Image from raw bytes. Content that does not detect as
// image/* is rejected with [ErrNotImage].
func FromBytes(data []byte, uri string) (Image, error) {
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return Image{}, errors.Join(ErrNotImage, &ErrMimeTypeNotSupported{MimeType: mime})
	}

	img := Image{
		URI:           uri,
		MimeType:      mime.String(),
		Base64Payload: base64.StdEncoding.EncodeToString(data),
	}

	// Size probe is advisory. Formats without a registered decoder keep 0x0.
	if config, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		img.Width = config.Width
		img.Height = config.Height
	}

	return img, nil
}

// FromReader drains reader and builds an Image from its content.
func FromReader(reader io.Reader, uri string) (Image, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return Image{}, errors.Join(errors.New("failed to read image content"), err)
	}
	return FromBytes(data, uri)
}

// FromFile loads and probes one image file from disk.
func FromFile(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, errors.Join(errors.New("failed to read image file"), err)
	}
	return FromBytes(data, path)
}

// ParseDataURI splits a data URI produced by [Image.DataURI] back into its
// mime type and raw bytes.
func ParseDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI: %q", truncate(uri, 32))
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("malformed data URI: missing payload separator")
	}

	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, errors.New("malformed data URI: only base64 encoding is supported")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.Join(errors.New("failed to decode data URI payload"), err)
	}

	return mime, data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
