package operation

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/walteh/reaprc/pkg/eraser"
	"github.com/walteh/reaprc/pkg/manifest"
	"github.com/walteh/reaprc/pkg/selector"
	"github.com/walteh/reaprc/pkg/verify"
	"gitlab.com/tozd/go/errors"
)

// testNow is the fixed clock all engine tests run against.
var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// newTestEngine wires an engine with the real collaborators and a fixed
// clock. Individual tests swap collaborators through override.
func newTestEngine(t *testing.T, override func(*Options)) *Engine {
	t.Helper()

	sel := selector.New()
	sel.Now = func() time.Time { return testNow }

	opts := Options{
		Selector: sel,
		Eraser:   eraser.New(),
		Hasher:   verify.New(),
		Now:      func() time.Time { return testNow },
	}
	if override != nil {
		override(&opts)
	}

	engine, err := New(opts)
	require.NoError(t, err)
	return engine
}

func writeAged(t *testing.T, dir, name string, ageDays int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("content of "+name), 0o644))
	mtime := testNow.AddDate(0, 0, -ageDays)
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func mustRule(t *testing.T, operation, source, destination string, ageDays int, filter string) manifest.Rule {
	t.Helper()
	r, err := manifest.NewRule(operation, "", source, destination, ageDays, filter)
	require.NoError(t, err)
	return r
}

func TestNewValidatesOptions(t *testing.T) {
	sel := selector.New()

	tests := []struct {
		name          string
		opts          Options
		expectedError string
	}{
		{
			name:          "missing_selector",
			opts:          Options{Eraser: eraser.New(), Hasher: verify.New()},
			expectedError: "selector is required",
		},
		{
			name:          "missing_eraser",
			opts:          Options{Selector: sel, Hasher: verify.New()},
			expectedError: "eraser is required",
		},
		{
			name:          "missing_hasher",
			opts:          Options{Selector: sel, Eraser: eraser.New()},
			expectedError: "hasher is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.expectedError)
		})
	}

	engine, err := New(Options{Selector: sel, Eraser: eraser.New(), Hasher: verify.New()})
	require.NoError(t, err)
	require.NotNil(t, engine)
}

// failEraser fails for one base name and delegates the rest.
type failEraser struct {
	real     *eraser.Eraser
	failName string
}

func (f *failEraser) Erase(ctx context.Context, path string) error {
	if filepath.Base(path) == f.failName {
		return errors.New("induced erase failure")
	}
	return f.real.Erase(ctx, path)
}

// corruptHasher reports a wrong digest for files under dir, simulating a
// destination that did not receive the bytes it was sent.
type corruptHasher struct {
	real *verify.Verifier
	dir  string
}

func (h *corruptHasher) Hash(ctx context.Context, path string) (string, error) {
	if filepath.Dir(path) == h.dir {
		return "0000000000000000000000000000000000000000000000000000000000000000", nil
	}
	return h.real.Hash(ctx, path)
}

// errHasher fails every hash, simulating unreadable content.
type errHasher struct{}

func (errHasher) Hash(ctx context.Context, path string) (string, error) {
	return "", errors.New("induced hash failure")
}

// stuckEraser zeroes nothing and always reports the zeroed-but-present
// hazard, as if the overwrite succeeded but the unlink was denied.
type stuckEraser struct{}

func (stuckEraser) Erase(ctx context.Context, path string) error {
	return errors.Errorf("removing %s: %w", path, eraser.ErrZeroedNotRemoved)
}

// unreadableEntrySelector reports one entry through the query's error
// callback before delegating to the real selector.
type unreadableEntrySelector struct {
	real    *selector.Selector
	badPath string
}

func (s *unreadableEntrySelector) Select(ctx context.Context, q selector.Query, visit selector.Visitor) error {
	if q.OnError != nil {
		q.OnError(s.badPath, errors.New("induced read failure"))
	}
	return s.real.Select(ctx, q, visit)
}
