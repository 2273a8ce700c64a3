package ocr

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRemoteRecognize(t *testing.T) {
	imageBytes := []byte("fake image payload")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ocr" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}

		if got := r.FormValue("languages"); got != "eng,deu" {
			t.Errorf("expected languages eng,deu, got %q", got)
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if string(data) != string(imageBytes) {
			t.Error("uploaded image bytes differ from input")
		}

		json.NewEncoder(w).Encode(map[string]any{
			"text": "INVOICE\nTOTAL 12.50",
			"lines": []map[string]any{
				{"text": "INVOICE", "confidence": 0.98},
				{"text": "TOTAL 12.50", "confidence": 0.42},
			},
		})
	}))
	defer server.Close()

	config := DefaultRemoteConfig()
	config.BaseURL = server.URL
	config.Languages = []string{"eng", "deu"}
	remote := NewRemote(config)

	result, err := remote.Recognize(context.Background(), imageBytes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.PlainText != "INVOICE\nTOTAL 12.50" {
		t.Errorf("unexpected plain text: %q", result.PlainText)
	}
	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(result.Lines))
	}
	if result.Lines[1].Confidence != 0.42 {
		t.Errorf("unexpected confidence: %f", result.Lines[1].Confidence)
	}
}

func TestRemoteRecognize_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	config := DefaultRemoteConfig()
	config.BaseURL = server.URL

	if _, err := NewRemote(config).Recognize(context.Background(), []byte("img")); err == nil {
		t.Fatal("expected error on non 200 response")
	}
}

func TestRemoteIsMimeTypeSupported(t *testing.T) {
	remote := NewRemote(DefaultRemoteConfig())
	if !remote.IsMimeTypeSupported("image/png") || !remote.IsMimeTypeSupported("image/jpeg") {
		t.Error("png and jpeg must be supported")
	}
	if remote.IsMimeTypeSupported("image/webp") {
		t.Error("webp is not supported by the remote service")
	}
}
