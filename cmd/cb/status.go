package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"go.klb.dev/copybuffer/internal/clip"
)

func printStatus(out io.Writer, c clip.Capability) {
	w := tabwriter.NewWriter(out, 1, 0, 2, ' ', 0)

	fmt.Fprintf(w, "OS:\t%s\n", c.GOOS)
	fmt.Fprintf(w, "Session:\t%s\n", c.Session)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "MECHANISM\tAVAILABLE\n")
	fmt.Fprintf(w, "---------\t---------\n")
	switch c.Session {
	case clip.SessionMacOS:
		fmt.Fprintf(w, "pbcopy\t%s\n", yesNo(c.Pbcopy))
	case clip.SessionWindows:
		fmt.Fprintf(w, "win32 clipboard\t%s\n", yesNo(true))
	default:
		fmt.Fprintf(w, "wl-copy\t%s\n", yesNo(c.WlCopy))
		fmt.Fprintf(w, "wl-paste\t%s\n", yesNo(c.WlPaste))
		fmt.Fprintf(w, "xclip\t%s\n", yesNo(c.Xclip))
		fmt.Fprintf(w, "xsel\t%s\n", yesNo(c.Xsel))
	}
	fmt.Fprintf(w, "text library\t%s\n", yesNo(c.TextLibrary))
	fmt.Fprintf(w, "fallback library\t%s\n", yesNo(c.FallbackLibrary))
	fmt.Fprintf(w, "osc52\t%s\n", yesNo(c.Terminal))
	_ = w.Flush()

	missing := c.Missing()
	switch {
	case len(missing) == 0:
		fmt.Fprintln(out, "\nReady.")
	case c.Ready():
		fmt.Fprintln(out, "\nReady via fallback. Missing dependencies:")
		printMissing(out, missing)
	default:
		fmt.Fprintln(out, "\nMissing dependencies:")
		printMissing(out, missing)
		fmt.Fprintf(out, "Hint: %s\n", c.Hint())
	}
}

func printMissing(out io.Writer, missing []string) {
	for _, m := range missing {
		fmt.Fprintf(out, "- %s\n", m)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
