// Package convert defines the HTML to PDF conversion boundary. Backends live
// in subpackages: local renders with pdfcpu, wkhtml shells out to
// wkhtmltopdf, remote talks to a conversion service over HTTP.
package convert

import (
	"context"
	"errors"
)

// A4 portrait at 72 DPI, in PDF points.
const (
	DefaultPageWidth  = 595.0
	DefaultPageHeight = 842.0
)

var ErrNoPages = errors.New("document has no pages to convert")

type Request struct {
	// Full HTML document to render. Must be self contained.
	HTML string `json:"html"`
	// Name of the created file, for example "scan.pdf".
	FileName string `json:"fileName"`
	// Directory where the file will be created. Empty means the OS temp dir.
	OutputDir string `json:"outputDir"`
	// Page size in PDF points. Zero means A4 portrait.
	PageWidth  float64 `json:"pageWidth"`
	PageHeight float64 `json:"pageHeight"`
	// Space between page edge and content in points.
	Padding float64 `json:"padding"`
}

// WithDefaults fills unset geometry so backends share one notion of the
// default page.
func (r Request) WithDefaults() Request {
	if r.PageWidth <= 0 {
		r.PageWidth = DefaultPageWidth
	}
	if r.PageHeight <= 0 {
		r.PageHeight = DefaultPageHeight
	}
	if r.Padding < 0 {
		r.Padding = 0
	}
	return r
}

type Result struct {
	// Absolute path of the created PDF.
	FilePath string `json:"filePath"`
	// Number of pages, 0 when the backend cannot know it.
	PageCount int `json:"pageCount"`
}

// Converter renders one HTML document into one PDF file.
type Converter interface {
	Convert(ctx context.Context, request Request) (Result, error)
}
