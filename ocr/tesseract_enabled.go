//go:build pagestack_feature_ocr_tesseract || test

package ocr

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

const FeatureTesseractEnabled = true

type Tesseract struct {
	client *gosseract.Client
	lock   sync.Mutex
	config TesseractConfig
}

func NewTesseract(config TesseractConfig) *Tesseract {
	return &Tesseract{
		config: config,
	}
}

func (p *Tesseract) Init() error {
	p.client = gosseract.NewClient()
	if err := p.client.SetLanguage(p.config.Languages...); err != nil {
		p.client.Close()
		return errors.Join(errors.New("failed to set languages"), err)
	}
	if err := p.client.DisableOutput(); err != nil {
		p.client.Close()
		return errors.Join(errors.New("failed to disable logs"), err)
	}
	for key, val := range p.config.Variables {
		if err := p.client.SetVariable(gosseract.SettableVariable(key), val); err != nil {
			p.client.Close()
			return errors.Join(fmt.Errorf("failed to set variable [%s]", key), err)
		}
	}
	return nil
}

func (p *Tesseract) Destroy() error {
	return p.client.Close()
}

func (p *Tesseract) Recognize(ctx context.Context, image []byte) (Result, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}

	if err := p.client.SetImageFromBytes(image); err != nil {
		return Result{}, errors.Join(errors.New("failed to prepare image for OCR"), err)
	}
	text, err := p.client.Text()
	if err != nil {
		return Result{}, errors.Join(errors.New("OCR process failed"), err)
	}

	result := Result{PlainText: strings.TrimSpace(text)}

	// Line geometry is best effort. Some builds cant iterate lines, plain
	// text is still valid in that case.
	boxes, err := p.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err == nil {
		for _, box := range boxes {
			line := strings.TrimSpace(box.Word)
			if line == "" {
				continue
			}
			result.Lines = append(result.Lines, Line{
				Text:       line,
				Confidence: box.Confidence / 100.0,
			})
		}
	}

	return result, nil
}

func (p *Tesseract) IsMimeTypeSupported(mimeType string) bool {
	return slices.Contains(p.config.SupportedImageFormats, mimeType)
}
