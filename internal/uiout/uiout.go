// Package uiout is vcshook's ambient colored-output layer: hook-list
// annotations, conflict warnings, and fatal errors go through here so
// the `--color` mode (auto/always/never, per internal/appconfig) is
// honored in exactly one place rather than scattered across every
// print call site.
package uiout

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/gitops-tools/vcshook/internal/appconfig"
)

func styled(attr color.Attribute) *color.Color {
	c := color.New(attr)
	switch appconfig.Color() {
	case "always":
		c.EnableColor()
	case "never":
		c.DisableColor()
	}
	return c
}

// Warn prints a yellow advisory line, e.g. the warn hookdir policy's
// "Running legacy hook at '...'" message.
func Warn(w io.Writer, format string, args ...any) {
	styled(color.FgYellow).Fprintln(w, fmt.Sprintf(format, args...))
}

// Fatal prints a red error or conflict line.
func Fatal(w io.Writer, format string, args ...any) {
	styled(color.FgRed).Fprintln(w, fmt.Sprintf(format, args...))
}

// Annotate colors a hook-list annotation (e.g. " (will warn but run)") so
// it stands out from the plain command text it follows.
func Annotate(s string) string {
	if s == "" {
		return s
	}
	return styled(color.FgYellow).Sprint(s)
}
