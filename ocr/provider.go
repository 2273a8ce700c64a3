package ocr

import (
	"context"
)

// Line is one recognized text line with its reading order position preserved.
type Line struct {
	Text string `json:"text"`
	// Recognition confidence from 0 to 1. Zero means the engine did not
	// report one, not that the line is worthless.
	Confidence float64 `json:"confidence"`
}

// Result of recognizing a single image.
type Result struct {
	// Full recognized text. Engines without line geometry set only this.
	PlainText string `json:"plainText"`
	// Recognized lines in reading order, when the engine reports them.
	Lines []Line `json:"lines,omitempty"`
}

// Provides OCR functionality
type Provider interface {
	// Get text from image. Thread safe
	Recognize(ctx context.Context, image []byte) (Result, error)
	// Check if this provider supports specific mime type
	IsMimeTypeSupported(mimeType string) bool
}

// Nop accepts every image and recognizes nothing. For runs where only the
// PDF export matters.
type Nop struct{}

func (Nop) Recognize(ctx context.Context, image []byte) (Result, error) {
	return Result{}, nil
}

func (Nop) IsMimeTypeSupported(mimeType string) bool {
	return true
}
