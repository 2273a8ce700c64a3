//go:build !pagestack_feature_ocr_tesseract && !test

package ocr

import (
	"context"
	"errors"
)

var errTesseractProviderNotCompiled = errors.New("OCR is not possible because binary wasnt compiled with internal tesseract OCR provider")

const FeatureTesseractEnabled = false

type Tesseract struct {
	config TesseractConfig
}

func NewTesseract(config TesseractConfig) *Tesseract {
	return &Tesseract{config: config}
}

func (p *Tesseract) Init() error {
	return errTesseractProviderNotCompiled
}

func (p *Tesseract) Destroy() error {
	return nil
}

func (p *Tesseract) Recognize(ctx context.Context, image []byte) (Result, error) {
	return Result{}, errTesseractProviderNotCompiled
}

func (p *Tesseract) IsMimeTypeSupported(mimeType string) bool {
	return false
}
