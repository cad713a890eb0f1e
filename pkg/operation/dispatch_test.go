package operation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/reaprc/pkg/manifest"
)

func TestRunNoOpRule(t *testing.T) {
	engine := newTestEngine(t, nil)
	res := engine.Run(testContext(t), []manifest.Rule{
		mustRule(t, "noop", "/data/anywhere", "", 0, "*"),
	})

	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, ResultSkipped, res.Outcomes[0].Result)
	assert.True(t, res.OK())
}

func TestRunUnknownOperationFailsRun(t *testing.T) {
	engine := newTestEngine(t, nil)
	res := engine.Run(testContext(t), []manifest.Rule{
		mustRule(t, "shred", "/data/anywhere", "", 0, "*"),
	})

	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, ResultIOFailure, res.Outcomes[0].Result)
	assert.Contains(t, res.Outcomes[0].Detail, `operation "shred" not defined`)
	assert.False(t, res.OK())
}

func TestRunEmptyManifest(t *testing.T) {
	engine := newTestEngine(t, nil)
	res := engine.Run(testContext(t), nil)
	assert.Empty(t, res.Outcomes)
	assert.True(t, res.OK())
}

func TestRunRuleIsolation(t *testing.T) {
	// A purge rule with a missing source must not prevent the following
	// relocate rule from executing and succeeding.
	src := t.TempDir()
	dst := t.TempDir()
	writeAged(t, src, "keep.dat", 10)

	engine := newTestEngine(t, nil)
	res := engine.Run(testContext(t), []manifest.Rule{
		mustRule(t, "purge", "/definitely/not/here", "", 30, "*"),
		mustRule(t, "relocate", src, dst, 0, "*"),
	})

	require.Len(t, res.Outcomes, 2)
	assert.Equal(t, ResultIOFailure, res.Outcomes[0].Result)
	assert.Equal(t, ResultSuccess, res.Outcomes[1].Result)
	assert.False(t, res.OK())

	_, err := os.Stat(filepath.Join(dst, "keep.dat"))
	assert.NoError(t, err)
}

func TestRunOutcomesFollowManifestOrder(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeAged(t, dirA, "a.tmp", 40)
	writeAged(t, dirB, "b.tmp", 40)

	engine := newTestEngine(t, nil)
	res := engine.Run(testContext(t), []manifest.Rule{
		mustRule(t, "purge", dirB, "", 30, "*.tmp"),
		mustRule(t, "purge", dirA, "", 30, "*.tmp"),
	})

	require.Len(t, res.Outcomes, 2)
	assert.Equal(t, "b.tmp", filepath.Base(res.Outcomes[0].Path))
	assert.Equal(t, "a.tmp", filepath.Base(res.Outcomes[1].Path))
}

func TestRunEndToEnd(t *testing.T) {
	// Rule A: purge *.tmp older than 30 days. Rule B: relocate everything
	// from archive to cold storage regardless of age.
	tmpDir := t.TempDir()
	archive := t.TempDir()
	cold := t.TempDir()

	aged := writeAged(t, tmpDir, "a.tmp", 40)
	fresh := writeAged(t, tmpDir, "b.tmp", 5)
	data := writeAged(t, archive, "c.dat", 10)
	original, err := os.ReadFile(data)
	require.NoError(t, err)

	engine := newTestEngine(t, nil)
	res := engine.Run(testContext(t), []manifest.Rule{
		mustRule(t, "purge", tmpDir, "", 30, "*.tmp"),
		mustRule(t, "relocate", archive, cold, 0, "*"),
	})

	require.Len(t, res.Outcomes, 2)
	assert.Equal(t, ResultSuccess, res.Outcomes[0].Result)
	assert.Equal(t, ResultSuccess, res.Outcomes[1].Result)
	assert.True(t, res.OK())

	_, err = os.Stat(aged)
	assert.True(t, os.IsNotExist(err), "a.tmp should be erased")
	_, err = os.Stat(fresh)
	assert.NoError(t, err, "b.tmp must be untouched")

	moved, err := os.ReadFile(filepath.Join(cold, "c.dat"))
	require.NoError(t, err)
	assert.Equal(t, original, moved, "cold copy must match the original bytes")
	_, err = os.Stat(data)
	assert.True(t, os.IsNotExist(err), "archive original should be gone")
}

func TestRunResultCounts(t *testing.T) {
	dir := t.TempDir()
	writeAged(t, dir, "a.tmp", 40)

	engine := newTestEngine(t, nil)
	res := engine.Run(testContext(t), []manifest.Rule{
		mustRule(t, "purge", dir, "", 30, "*.tmp"),
		mustRule(t, "noop", dir, "", 0, "*"),
		mustRule(t, "shred", dir, "", 0, "*"),
	})

	counts := res.Counts()
	assert.Equal(t, 1, counts[ResultSuccess])
	assert.Equal(t, 1, counts[ResultSkipped])
	assert.Equal(t, 1, counts[ResultIOFailure])
	assert.False(t, res.OK())
}
