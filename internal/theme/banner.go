package theme

import (
	"fmt"
	"io"
	"strings"
)

// Version is stamped at build time with -ldflags "-X shredder/internal/theme.Version=...".
var Version = "dev"

// Banner returns the name and version line, underlined to its own width.
func Banner() string {
	const bold = "\033[1m"
	const reset = "\033[0m"
	title := "shredder " + Version + " - deletes your old posts"
	return bold + title + reset + "\n" + strings.Repeat("-", len(title)) + "\n"
}

// PrintBanner writes the banner followed by a blank line.
func PrintBanner(w io.Writer) {
	fmt.Fprintln(w, Banner())
}
