package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// Opener opens movie pages in a web browser
type Opener struct {
	command string   // configured browser command, empty for detection
	args    []string // additional arguments for the browser
	logger  *slog.Logger

	lookPath func(file string) (string, error)
	start    func(name string, args ...string) error
}

// candidateOpeners defines the handlers tried in order for each platform
var candidateOpeners = map[string][][]string{
	"darwin":  {{"open"}},
	"linux":   {{"xdg-open"}, {"wslview"}, {"sensible-browser"}},
	"windows": {{"rundll32", "url.dll,FileProtocolHandler"}},
}

// NewOpener creates an Opener. An empty command detects the system handler.
func NewOpener(command string, args []string, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Opener{
		command:  command,
		args:     args,
		logger:   logger,
		lookPath: exec.LookPath,
		start:    startDetached,
	}
}

// Open opens url in the configured browser or the system default
func (o *Opener) Open(url string) error {
	// Tier 1: User configured a specific browser
	if o.command != "" {
		args := append(append([]string{}, o.args...), url)
		o.logger.Info("opening with configured browser", "command", o.command, "url", url)
		if err := o.start(o.command, args...); err != nil {
			return fmt.Errorf("failed to start %s: %w", o.command, err)
		}
		return nil
	}

	// Tier 2: Try the platform handlers in order
	candidates, ok := candidateOpeners[runtime.GOOS]
	if !ok {
		candidates = candidateOpeners["linux"]
	}
	for _, c := range candidates {
		if _, err := o.lookPath(c[0]); err != nil {
			o.logger.Debug("opener not available", "command", c[0], "error", err)
			continue
		}
		args := append(append([]string{}, c[1:]...), url)
		if err := o.start(c[0], args...); err != nil {
			o.logger.Debug("opener failed", "command", c[0], "error", err)
			continue
		}
		o.logger.Info("opened with system handler", "command", c[0], "url", url)
		return nil
	}

	return fmt.Errorf("no browser found; set ui.browser in the config")
}

// startDetached starts the command without waiting for it to exit
func startDetached(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}
