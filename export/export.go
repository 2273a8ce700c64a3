// Package export drives the image set to PDF pipeline end: compose the
// printable document, hand it to a converter, then surface the created file
// to the user through a notice and the clipboard.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/pagestack/pagestack/asset"
	"github.com/pagestack/pagestack/clip"
	"github.com/pagestack/pagestack/compose"
	"github.com/pagestack/pagestack/convert"
	"github.com/pagestack/pagestack/notify"
	"github.com/pagestack/pagestack/observability"
)

var ErrEmptySelection = errors.New("nothing to export: no images selected")

// ExportError wraps a failed conversion.
type ExportError struct {
	Err error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to export PDF: %s", e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

type Config struct {
	// Directory where PDFs are created. Empty means the OS temp dir.
	OutputDir string `json:"outputDir"`
	// First segment of generated file names. Default is "pagestack".
	FilePrefix string `json:"filePrefix"`
	// Page size in PDF points. Zero means A4 portrait.
	PageWidth  float64 `json:"pageWidth"`
	PageHeight float64 `json:"pageHeight"`
	// Space between page edge and image in points.
	Padding float64 `json:"padding"`
	Logger  observability.Logger
}

func DefaultConfig() Config {
	return Config{
		OutputDir:  os.TempDir(),
		FilePrefix: "pagestack",
		PageWidth:  convert.DefaultPageWidth,
		PageHeight: convert.DefaultPageHeight,
	}
}

type Exporter struct {
	converter convert.Converter
	clipboard clip.Clipboard
	notifier  notify.Notifier
	config    Config
	logger    observability.Logger
}

func New(converter convert.Converter, clipboard clip.Clipboard, notifier notify.Notifier, config Config) *Exporter {
	if clipboard == nil {
		clipboard = clip.Nop{}
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Exporter{
		converter: converter,
		clipboard: clipboard,
		notifier:  notifier,
		config:    config,
		logger:    observability.OrNop(config.Logger),
	}
}

// Export renders the images into one multi page PDF and returns its path.
// An empty selection fails with [ErrEmptySelection] before the converter is
// touched. Side effects after a successful conversion (success notice,
// clipboard) fail independently and never mask the export result.
func (e *Exporter) Export(ctx context.Context, images []asset.Image) (string, error) {
	if len(images) == 0 {
		return "", ErrEmptySelection
	}

	fileName := e.fileName(time.Now().UTC())
	result, err := e.converter.Convert(ctx, convert.Request{
		HTML:       compose.Document(images),
		FileName:   fileName,
		OutputDir:  e.config.OutputDir,
		PageWidth:  e.config.PageWidth,
		PageHeight: e.config.PageHeight,
		Padding:    e.config.Padding,
	})
	if err != nil {
		return "", &ExportError{Err: err}
	}

	e.logger.Info("exported PDF",
		observability.String("path", result.FilePath),
		observability.Int("images", len(images)),
		observability.Int("pages", result.PageCount))

	if err := e.notifier.Notify(notify.Notice{
		Level:   notify.LevelSuccess,
		Title:   "PDF saved",
		Message: result.FilePath,
	}); err != nil {
		e.logger.Warn("failed to deliver success notice", observability.Error("error", err))
	}

	if err := e.clipboard.Write(result.FilePath); err != nil {
		e.logger.Warn("failed to copy file path to clipboard", observability.Error("error", err))
	}

	return result.FilePath, nil
}

// fileName yields names unique per invocation that still sort by export time.
func (e *Exporter) fileName(now time.Time) string {
	prefix := e.config.FilePrefix
	if prefix == "" {
		prefix = "pagestack"
	}
	return fmt.Sprintf("%s-%s-%s.pdf", prefix, now.Format("20060102-150405"), uuid.NewString()[:8])
}
