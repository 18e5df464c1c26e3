// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/nchess/cbuild/internal/app/processor"
	"github.com/nchess/cbuild/internal/config"
	"github.com/nchess/cbuild/internal/issue"
	"github.com/nchess/cbuild/internal/pipeline"
)

// classifyError maps a run failure to its issue catalog entry. It returns 0
// when no entry applies.
func classifyError(err error) issue.Id {
	if entry := issue.IssueOf(err); entry != nil {
		return entry.Id()
	}

	switch {
	case errors.Is(err, processor.ErrUnknownCommand):
		return issue.UnknownCommandId
	case errors.Is(err, pipeline.ErrNoSourcesFound):
		return issue.NoSourcesFoundId
	case errors.Is(err, pipeline.ErrCompilationFailed):
		return issue.CompilationFailedId
	case errors.Is(err, pipeline.ErrArchiveCreationFailed):
		return issue.ArchiveCreationFailedId
	case errors.Is(err, pipeline.ErrLibraryMissing):
		return issue.LibraryMissingId
	case errors.Is(err, pipeline.ErrNoTestSourcesFound):
		return issue.NoTestSourcesFoundId
	case errors.Is(err, pipeline.ErrLinkFailed):
		return issue.LinkFailedId
	case errors.Is(err, pipeline.ErrTestsFailed):
		return issue.TestsFailedId
	case errors.Is(err, os.ErrPermission):
		return issue.PermissionDeniedId
	default:
		return 0
	}
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors use their own Format with suggestions.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// renderError writes the styled error line and, for setup problems or in
// verbose mode, the matching catalog page.
func renderError(w io.Writer, err error, verbose bool, scheme config.ColorScheme) {
	fmt.Fprintf(w, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))

	id := classifyError(err)
	if id == 0 {
		return
	}
	var ae *issue.ActionableError
	if !verbose && !errors.As(err, &ae) {
		return
	}

	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render(glamourStyle(w, scheme))
	if renderErr != nil {
		fmt.Fprintln(w, WarningStyle.Render("(could not render help: "+renderErr.Error()+")"))
		return
	}
	fmt.Fprint(w, rendered)
}

// glamourStyle resolves a color scheme to a glamour standard style. "auto"
// picks "dark" on terminals and "notty" otherwise.
func glamourStyle(w io.Writer, scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeDark, config.ColorSchemeLight:
		return scheme.String()
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "dark"
	}
	return "notty"
}
