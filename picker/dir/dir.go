// Package dir picks every image found under a directory tree. Files that
// are not images are skipped, so a folder of mixed scans and notes yields
// just its pages.
package dir

import (
	"context"
	"errors"
	"io/fs"

	"github.com/pagestack/pagestack/asset"
	"github.com/pagestack/pagestack/picker"
)

type Picker struct {
	fsys fs.FS
	root string
}

// New builds a picker that walks fsys starting at root. Pass os.DirFS and
// "." to pick from a directory on disk.
func New(fsys fs.FS, root string) *Picker {
	return &Picker{
		fsys: fsys,
		root: root,
	}
}

func (p *Picker) Pick(ctx context.Context) ([]asset.Image, error) {
	var images []asset.Image

	w := newWalker(p.fsys, p.root)
	for w.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := w.Err(); err != nil {
			return nil, &picker.AcquisitionError{Source: w.Path(), Err: err}
		}

		if w.Entry().IsDir() {
			continue
		}

		data, err := fs.ReadFile(p.fsys, w.Path())
		if err != nil {
			return nil, &picker.AcquisitionError{Source: w.Path(), Err: err}
		}

		image, err := asset.FromBytes(data, w.Path())
		if err != nil {
			if errors.Is(err, asset.ErrNotImage) {
				continue
			}
			return nil, &picker.AcquisitionError{Source: w.Path(), Err: err}
		}
		images = append(images, image)
	}

	return images, nil
}
