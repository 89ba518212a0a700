package tor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/tornago"
)

// DefaultStartupTimeout bounds how long the daemon may take to bootstrap.
const DefaultStartupTimeout = 3 * time.Minute

// ErrNotRunning is returned when the daemon's proxy is requested before
// Start succeeded.
var ErrNotRunning = errors.New("tor daemon is not running")

// Daemon manages an embedded Tor process. Bootstrapping takes from a few
// seconds to minutes while Tor fetches directory information and builds
// its first circuits.
type Daemon struct {
	process        *tornago.TorProcess
	socksAddr      string
	startupTimeout time.Duration
}

// DaemonOption configures a Daemon.
type DaemonOption func(*Daemon)

// WithStartupTimeout sets the bootstrap timeout.
func WithStartupTimeout(timeout time.Duration) DaemonOption {
	return func(d *Daemon) {
		if timeout > 0 {
			d.startupTimeout = timeout
		}
	}
}

// NewDaemon creates a Daemon. Call Start to launch Tor.
func NewDaemon(opts ...DaemonOption) *Daemon {
	d := &Daemon{startupTimeout: DefaultStartupTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches Tor on OS-assigned ports and blocks until it has
// bootstrapped. If ctx is cancelled meanwhile the process is stopped again.
func (d *Daemon) Start(ctx context.Context) error {
	cfg, err := tornago.NewTorLaunchConfig(
		tornago.WithTorSocksAddr(":0"),
		tornago.WithTorControlAddr(":0"),
		tornago.WithTorStartupTimeout(d.startupTimeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create Tor launch config: %w", err)
	}

	process, err := tornago.StartTorDaemon(cfg)
	if err != nil {
		return fmt.Errorf("failed to start Tor daemon: %w", err)
	}
	if err := ctx.Err(); err != nil {
		_ = process.Stop()
		return err
	}

	d.process = process
	d.socksAddr = process.SocksAddr()
	return nil
}

// Stop shuts the daemon down. It is safe to call on a daemon that never
// started or was already stopped.
func (d *Daemon) Stop() error {
	if d.process == nil {
		return nil
	}
	err := d.process.Stop()
	d.process = nil
	d.socksAddr = ""
	return err
}

// Running reports whether the daemon is up.
func (d *Daemon) Running() bool {
	return d.process != nil
}

// ProxyURL returns the SOCKS5 proxy URL of the running daemon. The socks5h
// scheme makes the proxy resolve host names, which .onion hosts require.
func (d *Daemon) ProxyURL() (string, error) {
	if !d.Running() {
		return "", ErrNotRunning
	}
	return "socks5h://" + d.socksAddr, nil
}
