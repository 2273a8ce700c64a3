// Package pagestack turns a picked set of images into recognized text and a
// multi page PDF. The Controller runs one session of that pipeline the way a
// single screen would: pick, read, export, clear.
package pagestack

import (
	"context"
	"errors"

	"github.com/pagestack/pagestack/asset"
	"github.com/pagestack/pagestack/notify"
	"github.com/pagestack/pagestack/observability"
	"github.com/pagestack/pagestack/permission"
	"github.com/pagestack/pagestack/picker"
)

// TextExtractor turns a picked batch into text blocks, index aligned with
// its input.
type TextExtractor interface {
	All(ctx context.Context, images []asset.Image) ([]string, error)
}

// PDFExporter renders the picked images into a stored PDF and returns its
// path.
type PDFExporter interface {
	Export(ctx context.Context, images []asset.Image) (string, error)
}

type Config struct {
	// Grants or denies access to the image source before every pick.
	// Defaults to always granting.
	Gate permission.Gate
	// Where the images of a session come from.
	Picker picker.Picker
	// Runs text recognition over a picked batch.
	Extractor TextExtractor
	// Renders a session into a PDF document.
	Exporter PDFExporter
	// Receives user facing notices. Defaults to discarding them.
	Notifier notify.Notifier
	// Defaults to a silent logger.
	Logger observability.Logger
}

func New(config *Config) (*Controller, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if config.Picker == nil {
		return nil, errors.New("picker is required")
	}
	if config.Extractor == nil {
		return nil, errors.New("extractor is required")
	}
	if config.Exporter == nil {
		return nil, errors.New("exporter is required")
	}

	gate := config.Gate
	if gate == nil {
		gate = permission.Static(true)
	}
	notifier := config.Notifier
	if notifier == nil {
		notifier = notify.Nop{}
	}

	return &Controller{
		gate:      gate,
		picker:    config.Picker,
		extractor: config.Extractor,
		exporter:  config.Exporter,
		notifier:  notifier,
		logger:    observability.OrNop(config.Logger),
		state:     StateIdle,
	}, nil
}
