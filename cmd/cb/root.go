package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/copybuffer/internal/clip"
	"go.klb.dev/copybuffer/internal/copier"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "cb [flags] [paths...]",
		Short: "Copy file contents, images, or STDIN input to the clipboard",
		Long: `cb places the contents of files, directories, images or standard input on
the system clipboard. Text can be prefixed with filename headers, wrapped as
chat attachments, or turned into a bash heredoc script that recreates the
files when pasted into a shell.

With no paths, cb reads standard input. Directories are expanded recursively
and .gitignore in the working directory is honoured.

Clipboard helpers by session:
  Wayland  wl-copy (wl-clipboard)
  X11      xclip or xsel
  macOS    pbcopy
  Windows  native API

Config file search order (first found wins):
  /etc/copybuffer/copybuffer.toml
  $HOME/.config/copybuffer/copybuffer.toml
  path supplied via --config

All flags can be set via CB_<FLAG> env vars or config-file keys.`,
		Version:      Version,
		SilenceUsage: true,
		PreRunE:      func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, v, args)
		},
	}
	cmd.SetVersionTemplate("copybuffer version {{.Version}}\n")

	f := cmd.Flags()
	f.BoolP("include-header", "i", false, "include the filename as a header in copied text")
	f.BoolP("directory", "d", false, "copy the files of directory arguments (shallow unless -r)")
	f.BoolP("recursive", "r", false, "recurse into subdirectories")
	f.BoolP("verbose", "v", false, "display the copied contents")
	f.BoolP("attachment", "a", false, "format output as a chat attachment")
	f.BoolP("paste", "p", false, "copy a shell heredoc script that creates the files on paste")
	f.Bool("append", false, "like --paste, but append to the target files instead of overwriting")
	f.BoolP("tokens", "t", false, "display file and token statistics")
	f.Bool("image", false, "force treating input files as images")
	f.Bool("allow-images", true, "copy images found inside directories")
	f.Bool("debug", false, "enable debug output")
	f.Bool("status", false, "report clipboard capabilities and exit")
	f.Bool("osc52", false, "fall back to OSC 52 terminal escapes when no clipboard is reachable")
	addLoggingFlags(f)
	addConfigFlag(f)

	return cmd
}

func runRoot(cmd *cobra.Command, v *viper.Viper, args []string) error {
	setupLogging(v)

	capability := clip.DetectCapability(v.GetBool("osc52"))
	slog.Debug("clipboard capability", "session", string(capability.Session), "goos", capability.GOOS)

	if v.GetBool("status") {
		printStatus(cmd.OutOrStdout(), capability)
		return nil
	}

	var missing []string
	if !capability.Ready() {
		missing = capability.Missing()
	}

	opts := copier.Options{
		Files:            args,
		IncludeHeader:    v.GetBool("include-header"),
		Attachment:       v.GetBool("attachment"),
		Paste:            v.GetBool("paste"),
		Append:           v.GetBool("append"),
		IncludeDirectory: v.GetBool("directory"),
		Recursive:        v.GetBool("recursive"),
		AllowImages:      v.GetBool("allow-images"),
		ForceImage:       v.GetBool("image"),
		Verbose:          v.GetBool("verbose"),
		Debug:            v.GetBool("debug"),
		Tokens:           v.GetBool("tokens"),
	}
	rep := copier.Run(cmd.Context(), opts, copier.Deps{
		Clipboard: clip.NewSelector(capability),
		Missing:   missing,
		Hint:      capability.Hint(),
		Stdin:     cmd.InOrStdin(),
		Out:       cmd.OutOrStdout(),
	})

	for _, p := range rep.Problems {
		slog.Debug("problem", "kind", p.Kind.String(), "path", p.Path, "err", p.Err)
	}
	if len(rep.Problems) > 0 {
		slog.Info("finished with problems", "count", len(rep.Problems))
	}
	return nil
}
