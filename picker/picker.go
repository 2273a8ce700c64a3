// Package picker acquires the images a session works on. Sources differ but
// the contract does not: picks preserve source order and every returned
// asset already carries its mime type and base64 payload. An empty
// selection is an empty slice with no error.
package picker

import (
	"context"
	"errors"
	"fmt"

	"github.com/pagestack/pagestack/asset"
)

type Picker interface {
	// Pick returns the selected images. Empty result means the user picked
	// nothing, which is not a failure.
	Pick(ctx context.Context) ([]asset.Image, error)
}

// AcquisitionError reports a source that could not deliver its images.
type AcquisitionError struct {
	// What was being read, usually a path.
	Source string
	Err    error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("failed to acquire images from %s: %s", e.Source, e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

// Multi concatenates the picks of several sources in order. Any source
// failure fails the whole pick.
type Multi struct {
	pickers []Picker
}

func NewMulti(pickers ...Picker) *Multi {
	return &Multi{pickers: pickers}
}

func (m *Multi) Pick(ctx context.Context) ([]asset.Image, error) {
	var images []asset.Image
	for _, p := range m.pickers {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		picked, err := p.Pick(ctx)
		if err != nil {
			return nil, errors.Join(errors.New("failed to collect images from all sources"), err)
		}
		images = append(images, picked...)
	}
	return images, nil
}
