package report

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/reaprc/pkg/operation"
)

// 🚨 Severity grades a failure notification. The caller picks how loudly
// a failed run should be announced; the engine itself has no opinion.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityCritical
)

// 📝 String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "error"
	}
}

// 📢 Notifier raises the completion notification for a finished run.
type Notifier interface {
	Notify(ctx context.Context, res *operation.RunResult, severity Severity)
}

// 🖥️ ConsoleNotifier announces run completion on the terminal.
type ConsoleNotifier struct{}

// 🏭 NewConsoleNotifier creates a console notifier.
func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

// 📣 Notify prints a success banner when the run succeeded, or a failure
// banner at the caller-supplied severity otherwise.
func (n *ConsoleNotifier) Notify(ctx context.Context, res *operation.RunResult, severity Severity) {
	logger := zerolog.Ctx(ctx)

	if res.OK() {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println("maintenance run completed")
		logger.Info().Msg("maintenance run completed")
		return
	}

	msg := fmt.Sprintf("maintenance run failed (%d outcomes)", len(res.Outcomes))
	switch severity {
	case SeverityWarning:
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(msg)
		logger.Warn().Str("severity", severity.String()).Msg(msg)
	default:
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(msg)
		logger.Error().Str("severity", severity.String()).Msg(msg)
	}
}
