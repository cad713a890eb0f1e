// Package operation implements the per-rule file maintenance protocols and
// the dispatcher that routes manifest rules to them.
package operation

import (
	"context"
	"time"

	"github.com/walteh/reaprc/pkg/selector"
	"gitlab.com/tozd/go/errors"
)

// 🔍 FileSelector yields a rule's candidate files one at a time.
type FileSelector interface {
	Select(ctx context.Context, q selector.Query, visit selector.Visitor) error
}

// 🔥 FileEraser destroys a file's content before removing it.
type FileEraser interface {
	Erase(ctx context.Context, path string) error
}

// 🔐 ContentHasher computes a strong content digest for a file.
type ContentHasher interface {
	Hash(ctx context.Context, path string) (string, error)
}

// 🔧 Options contains the engine's collaborators.
type Options struct {
	// Selector produces candidate files for each rule
	Selector FileSelector
	// Eraser securely removes files
	Eraser FileEraser
	// Hasher verifies relocated copies
	Hasher ContentHasher
	// Now is the clock used for logging; defaults to time.Now
	Now func() time.Time
}

// 🏭 New creates an engine with the given collaborators.
func New(opts Options) (*Engine, error) {
	if opts.Selector == nil {
		return nil, errors.New("selector is required")
	}
	if opts.Eraser == nil {
		return nil, errors.New("eraser is required")
	}
	if opts.Hasher == nil {
		return nil, errors.New("hasher is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		selector: opts.Selector,
		eraser:   opts.Eraser,
		hasher:   opts.Hasher,
		now:      opts.Now,
	}, nil
}

// 🎮 Engine runs manifest rules and aggregates their outcomes. It is
// synchronous and single-threaded: rules run in manifest order, files
// within a rule run one at a time.
type Engine struct {
	selector FileSelector
	eraser   FileEraser
	hasher   ContentHasher
	now      func() time.Time
}
