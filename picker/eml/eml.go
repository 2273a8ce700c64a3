// Package eml picks the images carried by a message/rfc822 e-mail, both
// inline and attached. Parts that are not images are ignored.
package eml

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	pathlib "path"
	"path/filepath"
	"strings"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"github.com/pagestack/pagestack/asset"
	"github.com/pagestack/pagestack/picker"
)

type Picker struct {
	reader io.Reader
	source string
}

// New builds a picker that reads a single message from reader. source
// names the message in image URIs and errors, usually the .eml file path.
func New(reader io.Reader, source string) *Picker {
	return &Picker{
		reader: reader,
		source: source,
	}
}

func (p *Picker) Pick(ctx context.Context) ([]asset.Image, error) {
	mailReader, err := mail.CreateReader(p.reader)
	if err != nil {
		return nil, &picker.AcquisitionError{Source: p.source, Err: errors.Join(errors.New("failed to parse email message"), err)}
	}

	var images []asset.Image

	partID := -1
	for {
		partID += 1
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		part, err := mailReader.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, &picker.AcquisitionError{Source: p.source, Err: errors.Join(errors.New("error while reading email part"), err)}
		}

		contentType, ctParams, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		_, dispParams, _ := mime.ParseMediaType(part.Header.Get("Content-Disposition"))

		if strings.HasPrefix(contentType, "text/") {
			continue
		}

		uri := pathlib.Join(p.source, p.getFileName(ctParams, dispParams, partID))
		image, err := asset.FromReader(part.Body, uri)
		if err != nil {
			if errors.Is(err, asset.ErrNotImage) {
				continue
			}
			return nil, &picker.AcquisitionError{Source: uri, Err: err}
		}
		images = append(images, image)
	}

	return images, nil
}

func (p *Picker) getFileName(ctParams, dispParams map[string]string, partID int) string {
	if name := dispParams["filename"]; name != "" {
		return filepath.Base(name)
	}
	if name := ctParams["name"]; name != "" {
		return filepath.Base(name)
	}
	return fmt.Sprintf("ext_%d", partID)
}
