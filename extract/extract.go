// Package extract turns picked images into per image text blocks using an
// OCR provider. Results stay index aligned with the input so callers can
// show text next to the image it came from.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pagestack/pagestack/asset"
	"github.com/pagestack/pagestack/observability"
	"github.com/pagestack/pagestack/ocr"
)

// ExtractionError reports a failed recognition for a single image.
type ExtractionError struct {
	// Source image URI
	URI string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("text extraction failed for %s: %s", e.URI, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

type Config struct {
	// Recognized lines with a reported confidence below this value are
	// dropped. Lines without a reported confidence are kept. From 0 to 1.
	MinConfidence float64 `json:"minConfidence"`
	// Maximum number of images recognized at the same time. 0 means one
	// goroutine per image.
	Parallelism int `json:"parallelism"`
	Logger      observability.Logger
}

func DefaultConfig() Config {
	return Config{
		MinConfidence: 0.5,
	}
}

type Extractor struct {
	provider ocr.Provider
	config   Config
	logger   observability.Logger
}

func New(provider ocr.Provider, config Config) *Extractor {
	return &Extractor{
		provider: provider,
		config:   config,
		logger:   observability.OrNop(config.Logger),
	}
}

// Text recognizes one image and normalizes the provider result into a single
// text block. An image with no recognizable text yields an empty string, not
// an error.
func (e *Extractor) Text(ctx context.Context, img asset.Image) (string, error) {
	data, err := img.Bytes()
	if err != nil {
		return "", &ExtractionError{URI: img.URI, Err: err}
	}

	result, err := e.provider.Recognize(ctx, data)
	if err != nil {
		return "", &ExtractionError{URI: img.URI, Err: err}
	}

	text := e.normalize(result)
	e.logger.Debug("text extraction finished",
		observability.String("uri", img.URI),
		observability.Int("chars", len(text)))
	return text, nil
}

// All recognizes every image concurrently. The returned slice has the same
// length and order as the input. The first failure cancels the remaining
// recognitions and fails the whole batch.
func (e *Extractor) All(ctx context.Context, images []asset.Image) ([]string, error) {
	texts := make([]string, len(images))

	group, ctx := errgroup.WithContext(ctx)
	if e.config.Parallelism > 0 {
		group.SetLimit(e.config.Parallelism)
	}

	for i, img := range images {
		group.Go(func() error {
			text, err := e.Text(ctx, img)
			if err != nil {
				return err
			}
			texts[i] = text
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, errors.Join(errors.New("failed to extract text from selected images"), err)
	}

	return texts, nil
}

// normalize flattens a provider result: line geometry wins over plain text,
// low confidence lines are filtered out, everything else joins with newlines.
func (e *Extractor) normalize(result ocr.Result) string {
	if len(result.Lines) == 0 {
		return strings.TrimSpace(result.PlainText)
	}

	kept := make([]string, 0, len(result.Lines))
	for _, line := range result.Lines {
		if line.Confidence != 0 && line.Confidence < e.config.MinConfidence {
			continue
		}
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		kept = append(kept, text)
	}

	return strings.Join(kept, "\n")
}
