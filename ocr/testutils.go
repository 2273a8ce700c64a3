//go:build test

package ocr

import (
	"testing"
)

// NewTestingOCRProvider returns a ready to use Tesseract provider for tests
// that need real recognition. Requires the tesseract library on the machine.
func NewTestingOCRProvider(t *testing.T) Provider {
	tesseract := NewTesseract(DefaultTesseractConfig())
	if err := tesseract.Init(); err != nil {
		t.Log(err.Error())
		t.FailNow()
	}

	t.Cleanup(func() {
		tesseract.Destroy()
	})

	return tesseract
}
