package wkhtml

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"testing"

	"github.com/pagestack/pagestack/convert"
)

func TestConvert_MissingBinary(t *testing.T) {
	config := DefaultConfig()
	config.BinaryPath = "pagestack-no-such-binary"

	_, err := New(config).Convert(context.Background(), convert.Request{
		HTML:      "<html><body></body></html>",
		FileName:  "out.pdf",
		OutputDir: t.TempDir(),
	})
	if !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound, got %v", err)
	}
}

func TestConvert_RendersDocument(t *testing.T) {
	if _, err := exec.LookPath("wkhtmltopdf"); err != nil {
		t.Skip("wkhtmltopdf is not installed")
	}

	result, err := New(DefaultConfig()).Convert(context.Background(), convert.Request{
		HTML:      "<html><body><div>single page</div></body></html>",
		FileName:  "out.pdf",
		OutputDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(result.FilePath)
	if err != nil {
		t.Fatalf("generated file unreadable: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("generated file is not a PDF")
	}
}
