package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Exit codes returned by the minipack binary.
const (
	ExitOK        = 0
	ExitGeneral   = 1
	ExitUsage     = 2
	ExitNotFound  = 4
	ExitConfig    = 7
	ExitInternal  = 10
	ExitBuild     = 11
	ExitExtension = 12
)

var categoryExitCodes = map[ErrorCategory]int{
	CategoryValidation: ExitUsage,
	CategoryNotFound:   ExitNotFound,
	CategoryConfig:     ExitConfig,
	CategoryHook:       ExitExtension,
	CategoryPlugin:     ExitExtension,
	CategoryRuntime:    ExitExtension,
	CategoryInternal:   ExitInternal,
}

// CLIErrorAdapter turns a failed command into a stderr message and exit code.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger}
}

// ExitCodeFor maps err to a process exit code. Unclassified errors exit 1.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	ce, ok := AsClassified(err)
	if !ok {
		return ExitGeneral
	}
	if buildCategories[ce.category] {
		return ExitBuild
	}
	if code, ok := categoryExitCodes[ce.category]; ok {
		return code
	}
	return ExitGeneral
}

// FormatError renders err for the terminal. Outside verbose mode internal
// errors are collapsed to a hint, and other classified errors drop their
// category prefix but keep the path or specifier context.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	ce, ok := AsClassified(err)
	switch {
	case !ok:
		return "Error: " + err.Error()
	case a.verbose:
		return ce.Error()
	case ce.category == CategoryInternal:
		return "Internal error occurred (use -v for details)"
	}
	msg := "Error: " + ce.describe()
	if ce.cause != nil {
		msg += ": " + ce.cause.Error()
	}
	return msg
}

// Report logs err, prints it to w and returns the exit code.
func (a *CLIErrorAdapter) Report(w io.Writer, err error) int {
	if err == nil {
		return ExitOK
	}
	a.log(err)
	fmt.Fprintln(w, a.FormatError(err))
	return a.ExitCodeFor(err)
}

// HandleError reports err on stderr and exits. It returns only for nil errors.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	os.Exit(a.Report(os.Stderr, err))
}

func (a *CLIErrorAdapter) log(err error) {
	ce, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}
	if !a.verbose && !ce.IsFatal() {
		return
	}
	level := slog.LevelError
	if ce.severity == SeverityWarning {
		level = slog.LevelWarn
	}
	a.logger.LogAttrs(context.Background(), level, ce.message,
		slog.String("category", string(ce.category)),
		slog.String("severity", string(ce.severity)))
}
