// Package files picks an explicit list of image files, typically command
// line arguments. Unlike the directory walker every named path must resolve
// to a readable image, a dangling argument is a user mistake worth failing.
package files

import (
	"context"

	"github.com/pagestack/pagestack/asset"
	"github.com/pagestack/pagestack/picker"
)

type Picker struct {
	paths []string
}

func New(paths ...string) *Picker {
	return &Picker{paths: paths}
}

func (p *Picker) Pick(ctx context.Context) ([]asset.Image, error) {
	if len(p.paths) == 0 {
		return nil, nil
	}

	images := make([]asset.Image, 0, len(p.paths))
	for _, path := range p.paths {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		img, err := asset.FromFile(path)
		if err != nil {
			return nil, &picker.AcquisitionError{Source: path, Err: err}
		}
		images = append(images, img)
	}

	return images, nil
}
