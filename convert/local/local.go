// Package local renders the composed HTML into a PDF without leaving the
// process. It reads the inline page images back out of the document and
// hands them to pdfcpu, one image per page, scaled to fit.
package local

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/types"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pagestack/pagestack/asset"
	"github.com/pagestack/pagestack/convert"
	"github.com/pagestack/pagestack/observability"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
)

// Formats pdfcpu can embed directly. Everything else transcodes to PNG
// before import.
var nativeFormats = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/tiff": ".tif",
	"image/webp": ".webp",
}

type Config struct {
	// Check the produced file with pdfcpu before reporting success.
	ValidateOutput bool `json:"validateOutput"`
	Logger         observability.Logger
}

func DefaultConfig() Config {
	return Config{
		ValidateOutput: true,
	}
}

type Converter struct {
	config Config
	logger observability.Logger
	conf   *model.Configuration
}

func New(config Config) *Converter {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Converter{
		config: config,
		logger: observability.OrNop(config.Logger),
		conf:   conf,
	}
}

func (c *Converter) Convert(ctx context.Context, request convert.Request) (convert.Result, error) {
	request = request.WithDefaults()

	pages, err := extractPages(request.HTML)
	if err != nil {
		return convert.Result{}, errors.Join(errors.New("failed to read page images from HTML document"), err)
	}
	if len(pages) == 0 {
		return convert.Result{}, convert.ErrNoPages
	}

	if ctx.Err() != nil {
		return convert.Result{}, ctx.Err()
	}

	tempDir, err := os.MkdirTemp("", "pagestack-render-*")
	if err != nil {
		return convert.Result{}, errors.Join(errors.New("failed to create temp directory for page images"), err)
	}
	defer os.RemoveAll(tempDir)

	imageFiles := make([]string, 0, len(pages))
	for i, page := range pages {
		data := page.data
		ext, native := nativeFormats[page.mimeType]
		if !native {
			data, err = transcodeToPNG(page.data)
			if err != nil {
				return convert.Result{}, errors.Join(fmt.Errorf("failed to transcode page %d (%s) for embedding", i+1, page.mimeType), err)
			}
			ext = ".png"
		}

		path := filepath.Join(tempDir, fmt.Sprintf("page-%04d%s", i+1, ext))
		if err := os.WriteFile(path, data, 0600); err != nil {
			return convert.Result{}, errors.Join(fmt.Errorf("failed to stage page %d image", i+1), err)
		}
		imageFiles = append(imageFiles, path)
	}

	outPath, err := resolveOutputPath(request)
	if err != nil {
		return convert.Result{}, err
	}

	imp, err := api.Import(importDescription(request), types.POINTS)
	if err != nil {
		return convert.Result{}, errors.Join(errors.New("failed to prepare page import configuration"), err)
	}

	if err := api.ImportImagesFile(imageFiles, outPath, imp, c.conf); err != nil {
		return convert.Result{}, errors.Join(errors.New("failed to render images into PDF"), err)
	}

	if c.config.ValidateOutput {
		if err := api.ValidateFile(outPath, c.conf); err != nil {
			return convert.Result{}, errors.Join(errors.New("generated PDF failed validation"), err)
		}
	}

	pageCount, err := api.PageCountFile(outPath)
	if err != nil {
		return convert.Result{}, errors.Join(errors.New("failed to count pages of generated PDF"), err)
	}

	c.logger.Info("rendered PDF",
		observability.String("path", outPath),
		observability.Int("pages", pageCount))

	return convert.Result{FilePath: outPath, PageCount: pageCount}, nil
}

// importDescription builds the pdfcpu import spec: exact page size, image
// centered on both axes, scaled to fit. Padding shrinks the fit box.
func importDescription(request convert.Request) string {
	scale := 1.0
	if request.Padding > 0 {
		scaleW := (request.PageWidth - 2*request.Padding) / request.PageWidth
		scaleH := (request.PageHeight - 2*request.Padding) / request.PageHeight
		scale = min(scaleW, scaleH)
		if scale <= 0 {
			scale = 0.01
		}
	}

	return fmt.Sprintf("dimensions:%d %d, position:c, scalefactor:%.2f rel",
		int(request.PageWidth), int(request.PageHeight), scale)
}

func resolveOutputPath(request convert.Request) (string, error) {
	outputDir := request.OutputDir
	if outputDir == "" {
		outputDir = os.TempDir()
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", errors.Join(errors.New("failed to create output directory"), err)
	}

	outPath, err := filepath.Abs(filepath.Join(outputDir, request.FileName))
	if err != nil {
		return "", errors.Join(errors.New("failed to resolve output path"), err)
	}

	// pdfcpu appends to an existing target, a fresh render should replace it.
	if err := os.Remove(outPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", errors.Join(errors.New("failed to replace existing output file"), err)
	}

	return outPath, nil
}

type pageImage struct {
	mimeType string
	data     []byte
}

// extractPages walks the parsed document and decodes every img element back
// into raw bytes. Non data URIs are rejected, the document contract is full
// self containment.
func extractPages(doc string) ([]pageImage, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, errors.Join(errors.New("failed to parse HTML document"), err)
	}

	var pages []pageImage
	var walk func(n *html.Node) error
	walk = func(n *html.Node) error {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			src := attr(n, "src")
			if src == "" {
				return fmt.Errorf("page %d has an img element without src", len(pages)+1)
			}
			mimeType, data, err := asset.ParseDataURI(src)
			if err != nil {
				return errors.Join(fmt.Errorf("page %d references an external resource", len(pages)+1), err)
			}
			pages = append(pages, pageImage{mimeType: mimeType, data: data})
			return nil
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root); err != nil {
		return nil, err
	}
	return pages, nil
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func transcodeToPNG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Join(errors.New("failed to decode image for transcoding"), err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Join(errors.New("failed to transcode image to PNG"), err)
	}
	return buf.Bytes(), nil
}
