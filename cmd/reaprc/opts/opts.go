package opts

import (
	"github.com/walteh/reaprc/pkg/report"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ManifestPath string          // path to the rule manifest
	LockPath     string          // optional lock file path; empty disables locking
	Severity     report.Severity // severity of the failure notification
}
