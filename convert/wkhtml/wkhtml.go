// Package wkhtml converts HTML to PDF by shelling out to wkhtmltopdf.
// Useful where pixel faithful CSS rendering matters more than avoiding the
// external binary.
package wkhtml

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pagestack/pagestack/convert"
	"github.com/pagestack/pagestack/observability"
)

var ErrBinaryNotFound = errors.New("wkhtmltopdf binary not found in PATH")

// wkhtmltopdf takes page geometry in millimeters.
const pointsPerMillimeter = 72.0 / 25.4

type Config struct {
	// Path to the wkhtmltopdf binary. Default resolves from PATH.
	BinaryPath string `json:"binaryPath"`
	Logger     observability.Logger
}

func DefaultConfig() Config {
	return Config{
		BinaryPath: "wkhtmltopdf",
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

	binary, err := exec.LookPath(c.config.BinaryPath)
	if err != nil {
		return convert.Result{}, errors.Join(ErrBinaryNotFound, err)
	}

	tempDir, err := os.MkdirTemp("", "pagestack-wkhtml-*")
	if err != nil {
		return convert.Result{}, errors.Join(errors.New("failed to create temp directory"), err)
	}
	defer os.RemoveAll(tempDir)

	htmlPath := filepath.Join(tempDir, "document.html")
	if err := os.WriteFile(htmlPath, []byte(request.HTML), 0600); err != nil {
		return convert.Result{}, errors.Join(errors.New("failed to stage HTML document"), err)
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

	margin := fmt.Sprintf("%.2fmm", request.Padding/pointsPerMillimeter)
	args := []string{
		"--quiet",
		"--encoding", "utf-8",
		"--page-width", fmt.Sprintf("%.2fmm", request.PageWidth/pointsPerMillimeter),
		"--page-height", fmt.Sprintf("%.2fmm", request.PageHeight/pointsPerMillimeter),
		"--margin-top", margin,
		"--margin-bottom", margin,
		"--margin-left", margin,
		"--margin-right", margin,
		"--disable-local-file-access",
		htmlPath,
		outPath,
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return convert.Result{}, fmt.Errorf("wkhtmltopdf failed: %w: %s", err, stderr.String())
	}

	c.logger.Info("rendered PDF", observability.String("path", outPath))

	// wkhtmltopdf reports nothing useful about pagination.
	return convert.Result{FilePath: outPath}, nil
}
