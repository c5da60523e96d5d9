package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Opener implements ports.URLOpener with the platform's URL handler
type Opener struct {
	goos string
}

// NewOpener creates a new browser opener for the running platform
func NewOpener() *Opener {
	return &Opener{goos: runtime.GOOS}
}

// OpenURL opens an http(s) URI in the system browser
func (o *Opener) OpenURL(uri string) error {
	cmd, err := o.Command(uri)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Command returns the exec.Cmd that would open uri
func (o *Opener) Command(uri string) (*exec.Cmd, error) {
	if err := ValidateURL(uri); err != nil {
		return nil, err
	}

	switch o.goos {
	case "darwin":
		return exec.Command("open", uri), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", uri), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", "", uri), nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", o.goos)
	}
}

// ValidateURL accepts absolute http and https URLs only
func ValidateURL(uri string) error {
	u, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", uri, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q: not an http(s) URL", uri)
	}
	if u.Host == "" {
		return fmt.Errorf("refusing to open %q: no host", uri)
	}
	return nil
}
