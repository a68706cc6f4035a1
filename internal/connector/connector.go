// Package connector launches external clients for resolved BBS entries.
// No wire protocol is implemented here: telnet and ssh entries spawn the
// system client, https entries open in the browser.
package connector

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/exec"

	"github.com/pkg/browser"

	"github.com/bbsdial/bbsdial/internal/entry"
)

// Connector dials entries through external clients.
type Connector struct {
	// run executes an external client and blocks until it exits.
	run func(ctx context.Context, name string, args ...string) error

	// openURL opens an https entry in the browser.
	openURL func(rawURL string) error
}

// New creates a connector using the system telnet/ssh clients and the
// default browser.
func New() *Connector {
	return &Connector{
		run:     runInteractive,
		openURL: browser.OpenURL,
	}
}

// Dial launches the appropriate external client for the entry. The URL
// has already been validated at parse time; an unsupported scheme here
// means a programming error, not bad user data.
func (c *Connector) Dial(ctx context.Context, e entry.Entry) error {
	u, err := url.Parse(e.URL)
	if err != nil {
		return fmt.Errorf("invalid entry URL %q: %w", e.URL, err)
	}

	slog.Info("Dialing", "name", e.Name, "url", e.URL)

	switch u.Scheme {
	case entry.SchemeTelnet:
		port := u.Port()
		if port == "" {
			port = "23"
		}
		return c.run(ctx, "telnet", u.Hostname(), port)

	case entry.SchemeSSH:
		args := sshArgs(u)
		return c.run(ctx, "ssh", args...)

	case entry.SchemeHTTPS:
		return c.openURL(e.URL)

	default:
		return fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
	}
}

// sshArgs builds the ssh invocation for an entry URL, honoring an
// optional user and port.
func sshArgs(u *url.URL) []string {
	var args []string
	if port := u.Port(); port != "" {
		args = append(args, "-p", port)
	}
	target := u.Hostname()
	if user := u.User.Username(); user != "" {
		target = user + "@" + target
	}
	return append(args, target)
}

// runInteractive runs an external client attached to the terminal.
func runInteractive(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- client name is fixed, args derive from a validated URL
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s exited with error: %w", name, err)
	}
	return nil
}
