// Package permission gates the pipeline on media access. A denial is a
// value, never an error: callers branch, they dont unwrap.
package permission

import (
	"context"
	"os"

	"github.com/pagestack/pagestack/observability"
)

type Gate interface {
	// Acquire reports whether the application may read source images and
	// write exported files. Implementations never return errors, any
	// internal failure counts as a denial.
	Acquire(ctx context.Context) bool
}

// Static always answers the same. Useful where the process either owns its
// files outright or runs in an environment that cannot grant anything.
type Static bool

func (s Static) Acquire(ctx context.Context) bool {
	return bool(s)
}

// DirProbe grants access only when the output directory is actually usable:
// a probe file must be created, read back and removed. Both the write and
// the read step have to succeed, matching the two step media permission
// request this stands in for.
type DirProbe struct {
	Dir    string
	Logger observability.Logger
}

func (g DirProbe) Acquire(ctx context.Context) bool {
	logger := observability.OrNop(g.Logger)

	if ctx.Err() != nil {
		return false
	}

	probe, err := os.CreateTemp(g.Dir, ".pagestack-probe-*")
	if err != nil {
		logger.Debug("write probe failed", observability.Error("error", err))
		return false
	}
	name := probe.Name()
	defer os.Remove(name)

	if _, err := probe.Write([]byte("probe")); err != nil {
		probe.Close()
		logger.Debug("write probe failed", observability.Error("error", err))
		return false
	}
	if err := probe.Close(); err != nil {
		logger.Debug("write probe failed", observability.Error("error", err))
		return false
	}

	if _, err := os.ReadFile(name); err != nil {
		logger.Debug("read probe failed", observability.Error("error", err))
		return false
	}

	return true
}
