package clip

import (
	"os"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
)

// Session is the display environment a write targets.
type Session string

const (
	SessionWayland Session = "wayland"
	SessionX11     Session = "x11"
	SessionNone    Session = "none"
	SessionMacOS   Session = "macos"
	SessionWindows Session = "windows"
)

// Capability describes the clipboard mechanisms available to this process.
// It is computed once per invocation; tests construct it directly.
type Capability struct {
	GOOS    string
	Session Session

	WlCopy  bool
	WlPaste bool
	Xclip   bool
	Xsel    bool
	Pbcopy  bool

	// TextLibrary reports whether atotto/clipboard found a mechanism.
	TextLibrary bool
	// FallbackLibrary reports whether golang.design/x/clipboard initialised.
	// It is only initialised when no helper covers the session.
	FallbackLibrary bool
	// Terminal reports that OSC 52 output is enabled and stderr is a TTY.
	Terminal bool
}

// Environment gathers the inputs Detect needs. Its zero value is not
// usable; start from DefaultEnvironment.
type Environment struct {
	GOOS        string
	Getenv      func(string) string
	LookPath    func(string) (string, error)
	TextLibrary func() bool
	InitLibrary func() error
	Terminal    func() bool
}

// DefaultEnvironment reads the real environment.
func DefaultEnvironment() Environment {
	return Environment{
		GOOS:        runtime.GOOS,
		Getenv:      os.Getenv,
		LookPath:    exec.LookPath,
		TextLibrary: func() bool { return !clipboard.Unsupported },
		InitLibrary: initLibrary,
		Terminal:    func() bool { return false },
	}
}

// DetectCapability inspects the real environment. OSC 52 counts as a
// mechanism only when osc52 is set and stderr is a terminal.
func DetectCapability(osc52 bool) Capability {
	p := DefaultEnvironment()
	p.Terminal = terminalCheck(osc52, os.Stderr)
	return p.Detect()
}

func terminalCheck(osc52 bool, f *os.File) func() bool {
	return func() bool {
		if !osc52 || f == nil {
			return false
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
}

// IsWayland reports whether environment markers indicate a Wayland session.
func IsWayland(getenv func(string) string) bool {
	return getenv("WAYLAND_DISPLAY") != "" ||
		getenv("XDG_SESSION_TYPE") == "wayland" ||
		getenv("HYPRLAND_INSTANCE_SIGNATURE") != "" ||
		getenv("SWAYSOCK") != ""
}

// Detect computes a Capability from what the environment reports.
func (p Environment) Detect() Capability {
	has := func(name string) bool {
		_, err := p.LookPath(name)
		return err == nil
	}

	c := Capability{GOOS: p.GOOS}
	switch p.GOOS {
	case "darwin":
		c.Session = SessionMacOS
		c.Pbcopy = has("pbcopy")
	case "windows":
		c.Session = SessionWindows
	default:
		switch {
		case IsWayland(p.Getenv):
			c.Session = SessionWayland
		case p.Getenv("DISPLAY") != "":
			c.Session = SessionX11
		default:
			c.Session = SessionNone
		}
		c.WlCopy = has("wl-copy")
		c.WlPaste = has("wl-paste")
		c.Xclip = has("xclip")
		c.Xsel = has("xsel")
	}

	if p.TextLibrary != nil {
		c.TextLibrary = p.TextLibrary()
	}
	if p.Terminal != nil {
		c.Terminal = p.Terminal()
	}
	if !c.helperAvailable() && c.Session != SessionNone && p.InitLibrary != nil {
		c.FallbackLibrary = p.InitLibrary() == nil
	}
	return c
}

func (c Capability) unixLike() bool {
	return c.GOOS != "darwin" && c.GOOS != "windows"
}

// helperAvailable reports whether an external helper or platform API can
// carry any payload in this session.
func (c Capability) helperAvailable() bool {
	switch c.Session {
	case SessionWayland:
		return c.WlCopy || c.Xclip || c.Xsel
	case SessionX11:
		return c.Xclip || c.Xsel
	case SessionMacOS:
		return c.Pbcopy
	case SessionWindows:
		return true
	default:
		return false
	}
}

// Missing lists what must be installed or configured before the clipboard
// can be written. An empty result means the environment is ready.
func (c Capability) Missing() []string {
	var missing []string
	if c.unixLike() {
		switch {
		case c.Session == SessionWayland:
			if !c.WlCopy || !c.WlPaste {
				missing = append(missing, "wl-clipboard (wl-copy and wl-paste)")
			}
		case c.Session == SessionNone:
			missing = append(missing, "DISPLAY environment variable")
		case !c.Xclip && !c.Xsel:
			missing = append(missing, "xclip or xsel")
		}
	}
	if !c.TextLibrary {
		missing = append(missing, "clipboard library (atotto/clipboard)")
	}
	return missing
}

// Ready reports whether some mechanism can take a write: either nothing is
// missing, or a last-resort mechanism is available.
func (c Capability) Ready() bool {
	return len(c.Missing()) == 0 || c.Terminal || c.FallbackLibrary
}

// Hint returns a remediation message for the session.
func (c Capability) Hint() string {
	switch c.Session {
	case SessionWayland:
		return "install wl-clipboard for Wayland clipboard support"
	case SessionNone:
		return "no DISPLAY environment variable; ensure an X server is running or install wl-clipboard for Wayland"
	case SessionX11:
		return "install xclip or xsel"
	case SessionMacOS:
		return "pbcopy not found in PATH"
	default:
		return "no clipboard mechanism found"
	}
}
