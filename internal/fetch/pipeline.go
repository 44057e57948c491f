// internal/fetch/pipeline.go
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/tamzrod/linkfetch/internal/status"
)

// DefaultBufferSize is the receive buffer length.
const DefaultBufferSize = 100

const rule = "--------------------------------------------------------------------------------"

// Phase is the pipeline's position in its one run.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseResolving
	PhaseConnecting
	PhaseSending
	PhaseReceiving
	PhaseClosed
	PhaseHalted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseResolving:
		return "resolving"
	case PhaseConnecting:
		return "connecting"
	case PhaseSending:
		return "sending"
	case PhaseReceiving:
		return "receiving"
	case PhaseClosed:
		return "closed"
	case PhaseHalted:
		return "halted"
	default:
		return fmt.Sprintf("phase(%d)", int32(p))
	}
}

// Outcome is the result of the single run. Err nil means success.
type Outcome struct {
	Streamed int64
	Err      error
}

func (o Outcome) OK() bool { return o.Err == nil }

// Reporter receives the pipeline's status updates.
type Reporter interface {
	Report(s status.Snapshot)
}

// Pipeline performs resolve → connect → send → receive → close, once.
// Every fatal failure halts: the socket is closed and no retry happens.
type Pipeline struct {
	transport Transport
	reporter  Reporter
	sink      io.Writer
	logger    *log.Logger
	bufSize   int

	ran   atomic.Bool
	phase atomic.Int32
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithBufferSize sets the receive buffer length (minimum 1).
func WithBufferSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

func New(t Transport, r Reporter, sink io.Writer, logger *log.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	if sink == nil {
		sink = io.Discard
	}
	p := &Pipeline{
		transport: t,
		reporter:  r,
		sink:      sink,
		logger:    logger,
		bufSize:   DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Phase returns the current phase.
func (p *Pipeline) Phase() Phase {
	return Phase(p.phase.Load())
}

func (p *Pipeline) enter(ph Phase) {
	p.phase.Store(int32(ph))
}

// Run executes the pipeline. It runs at most once per Pipeline.
func (p *Pipeline) Run(ctx context.Context, req Request) Outcome {
	if !p.ran.CompareAndSwap(false, true) {
		return Outcome{Err: ErrAlreadyRun}
	}

	target := net.JoinHostPort(req.Host, req.Port)

	// ---- resolve ----
	p.enter(PhaseResolving)
	candidates, err := p.transport.Resolve(ctx, req.Host, req.Port)
	if err == nil && len(candidates) == 0 {
		err = ErrNoCandidates
	}
	if err != nil {
		return p.halt(nil, &Error{Kind: ResolutionError, Target: target, Err: err})
	}
	addr := candidates[0]
	p.logger.Printf("target resolved (host=%s addr=%s candidates=%d)", req.Host, addr, len(candidates))

	// ---- connect ----
	p.enter(PhaseConnecting)
	sock, err := p.transport.Socket(networkFor(addr))
	if err != nil {
		return p.halt(nil, &Error{Kind: SocketAllocationError, Target: addr.String(), Err: err})
	}
	closer := &onceCloser{s: sock}
	p.logger.Printf("socket allocated (network=%s)", networkFor(addr))

	if err := sock.Connect(addr); err != nil {
		return p.halt(closer, &Error{Kind: ConnectError, Target: addr.String(), Err: err})
	}
	p.logger.Printf("connected to target (addr=%s)", addr)

	// ---- send ----
	p.enter(PhaseSending)
	if err := writeAll(sock, req.Bytes()); err != nil {
		return p.halt(closer, &Error{Kind: SendError, Target: addr.String(), Err: err})
	}
	p.logger.Printf("http request sent (path=%s)", req.Path)
	if p.reporter != nil {
		p.reporter.Report(status.RequestSent())
	}

	// ---- receive ----
	p.enter(PhaseReceiving)
	streamed := p.receive(sock)

	// ---- close ----
	if err := closer.Close(); err != nil {
		p.logger.Printf("socket close failed: %v", err)
	}
	p.enter(PhaseClosed)
	p.logger.Printf("socket closed (bytes=%d)", streamed)

	return Outcome{Streamed: streamed}
}

// receive echoes the response verbatim until EOF or a read error.
// A read error ends the stream like EOF does.
func (p *Pipeline) receive(sock Socket) int64 {
	buf := make([]byte, p.bufSize)
	var total int64

	p.logger.Printf("http response:")
	p.logger.Print(rule)
	defer func() {
		if f, ok := p.sink.(flusher); ok {
			f.Flush()
		}
		p.logger.Print(rule)
	}()

	for {
		n, err := sock.Read(buf)
		if n > 0 {
			total += int64(n)
			if _, werr := p.sink.Write(buf[:n]); werr != nil {
				p.logger.Printf("response sink write failed: %v", werr)
			}
		}
		if err != nil {
			p.logger.Printf("receive ended on read error: %v", err)
			return total
		}
		if n == 0 {
			return total
		}
	}
}

func (p *Pipeline) halt(c *onceCloser, err *Error) Outcome {
	if c != nil {
		if cerr := c.Close(); cerr != nil {
			p.logger.Printf("socket close failed: %v", cerr)
		}
	}
	p.enter(PhaseHalted)
	p.logger.Printf("fetch halted (kind=%s code=%d): %v", err.Kind.String(), err.Code(), err)
	return Outcome{Err: err}
}

// writeAll writes b fully. A zero-length write without error is treated
// as a failure so a stuck peer cannot spin the loop.
func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		if n <= 0 {
			return io.ErrShortWrite
		}
		b = b[n:]
	}
	return nil
}

// flusher is implemented by sinks that buffer a partial line.
type flusher interface {
	Flush()
}

// onceCloser closes the wrapped socket at most once.
type onceCloser struct {
	once sync.Once
	s    Socket
	err  error
}

func (c *onceCloser) Close() error {
	c.once.Do(func() { c.err = c.s.Close() })
	return c.err
}

// LogWriter adapts a logger to io.Writer, one log line per input line.
// Used when the response should land in the log rather than on stdout.
type LogWriter struct {
	Logger  *log.Logger
	pending strings.Builder
}

func (w *LogWriter) Write(b []byte) (int, error) {
	for _, c := range b {
		if c == '\n' {
			w.Logger.Print(strings.TrimRight(w.pending.String(), "\r"))
			w.pending.Reset()
			continue
		}
		w.pending.WriteByte(c)
	}
	return len(b), nil
}

// Flush emits any partial trailing line.
func (w *LogWriter) Flush() {
	if w.pending.Len() > 0 {
		w.Logger.Print(w.pending.String())
		w.pending.Reset()
	}
}
