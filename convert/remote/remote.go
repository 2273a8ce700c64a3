// Package remote delegates HTML to PDF conversion to an external rendering
// service over HTTP. The service receives the document and geometry as JSON
// and answers with the PDF bytes.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pagestack/pagestack/convert"
	"github.com/pagestack/pagestack/observability"
)

type Config struct {
	// HTTP client used to make requests to the server
	Client *http.Client
	// Server base URL. For example http://127.0.0.1:8884
	BaseURL string `json:"baseUrl"`
	Logger  observability.Logger
}

func DefaultConfig() Config {
	return Config{
		Client:  http.DefaultClient,
		BaseURL: "http://127.0.0.1:8884",
	}
}

type Converter struct {
	config Config
	logger observability.Logger
}

func New(config Config) *Converter {
	return &Converter{
		config: config,
		logger: observability.OrNop(config.Logger),
	}
}

func (c *Converter) Convert(ctx context.Context, request convert.Request) (convert.Result, error) {
	request = request.WithDefaults()

	payload, err := json.Marshal(struct {
		HTML       string  `json:"html"`
		FileName   string  `json:"fileName"`
		PageWidth  float64 `json:"pageWidth"`
		PageHeight float64 `json:"pageHeight"`
		Padding    float64 `json:"padding"`
	}{
		HTML:       request.HTML,
		FileName:   request.FileName,
		PageWidth:  request.PageWidth,
		PageHeight: request.PageHeight,
		Padding:    request.Padding,
	})
	if err != nil {
		return convert.Result{}, errors.Join(errors.New("failed to marshall conversion request"), err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL+"/convert", bytes.NewReader(payload))
	if err != nil {
		return convert.Result{}, errors.Join(errors.New("failed to prepare HTTP request"), err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.config.Client.Do(req)
	if err != nil {
		return convert.Result{}, errors.Join(errors.New("HTTP request to external server failed"), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return convert.Result{}, fmt.Errorf("bad status code from external sever: status code %d", resp.StatusCode)
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return convert.Result{}, errors.Join(errors.New("error while reading response body from remote server"), err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		return convert.Result{}, errors.New("remote server response is not a PDF document")
	}

	outputDir := request.OutputDir
	if outputDir == "" {
		outputDir = os.TempDir()
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return convert.Result{}, errors.Join(errors.New("failed to create output directory"), err)
	}
	outPath, err := filepath.Abs(filepath.Join(outputDir, request.FileName))
	if err != nil {
		return convert.Result{}, errors.Join(errors.New("failed to resolve output path"), err)
	}
	if err := os.WriteFile(outPath, pdf, 0644); err != nil {
		return convert.Result{}, errors.Join(errors.New("failed to write received PDF"), err)
	}

	c.logger.Info("rendered PDF", observability.String("path", outPath))

	return convert.Result{FilePath: outPath}, nil
}
