// internal/orchestrator/orchestrator.go
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/tamzrod/linkfetch/internal/fetch"
	"github.com/tamzrod/linkfetch/internal/link"
	"github.com/tamzrod/linkfetch/internal/status"
)

// Monitor is the part of link.Monitor the orchestrator drives.
type Monitor interface {
	Start(ctx context.Context) error
	AwaitReadyContext(ctx context.Context) error
	IPInfo() (link.IPInfo, error)
}

// Fetcher runs the fetch pipeline once.
type Fetcher interface {
	Run(ctx context.Context, req fetch.Request) fetch.Outcome
}

// Reporter renders status snapshots.
type Reporter interface {
	Report(s status.Snapshot)
}

type Config struct {
	Monitor  Monitor
	Fetcher  Fetcher
	Reporter Reporter
	Request  fetch.Request
	SSID     string
	Logger   *log.Logger
}

// Orchestrator sequences link bring-up and the single fetch.
type Orchestrator struct {
	cfg Config
	ran atomic.Bool
}

func New(cfg Config) (*Orchestrator, error) {
	if cfg.Monitor == nil {
		return nil, errors.New("orchestrator: monitor required")
	}
	if cfg.Fetcher == nil {
		return nil, errors.New("orchestrator: fetcher required")
	}
	if cfg.Reporter == nil {
		return nil, errors.New("orchestrator: reporter required")
	}
	if err := cfg.Request.Validate(); err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Orchestrator{cfg: cfg}, nil
}

// Run performs the boot sequence exactly once:
// device ready → link start → wait for link → connected → fetch.
// The returned error covers link start-up and cancellation while waiting
// for the link; fetch failures are in the Outcome. After Run the caller is expected to Idle.
func (o *Orchestrator) Run(ctx context.Context) (fetch.Outcome, error) {
	if !o.ran.CompareAndSwap(false, true) {
		return fetch.Outcome{}, errors.New("orchestrator: already ran")
	}

	lg := o.cfg.Logger

	o.cfg.Reporter.Report(status.DeviceReady())

	if err := o.cfg.Monitor.Start(ctx); err != nil {
		return fetch.Outcome{}, err
	}
	o.cfg.Reporter.Report(status.Connecting(o.cfg.SSID))

	// No timeout: only ctx ending (process stop) cuts the wait short.
	if err := o.cfg.Monitor.AwaitReadyContext(ctx); err != nil {
		return fetch.Outcome{}, fmt.Errorf("orchestrator: waiting for link: %w", err)
	}

	info, err := o.cfg.Monitor.IPInfo()
	if err != nil {
		lg.Printf("ip info unavailable: %v", err)
	}
	lg.Printf("IP Address:  %s", info.Address)
	lg.Printf("Subnet mask: %s", info.Netmask)
	lg.Printf("Gateway:     %s", info.Gateway)
	o.cfg.Reporter.Report(status.Connected(info.Address))

	out := o.cfg.Fetcher.Run(ctx, o.cfg.Request)
	if out.Err != nil {
		lg.Printf("fetch failed; halting: %v", out.Err)
	} else {
		lg.Printf("fetch complete (bytes=%d); idling", out.Streamed)
	}
	return out, nil
}

// Idle is the terminal resting state after Run, success or halt alike.
// Nothing progresses until ctx ends.
func Idle(ctx context.Context) {
	<-ctx.Done()
}
