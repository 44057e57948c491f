// internal/orchestrator/orchestrator_test.go
package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net/netip"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/linkfetch/internal/display"
	"github.com/tamzrod/linkfetch/internal/fetch"
	"github.com/tamzrod/linkfetch/internal/link"
	"github.com/tamzrod/linkfetch/internal/status"
)

// ---- fake link driver ----

// fakeDriver behaves like a radio: start → layer-started, associate →
// address-acquired, each delivered from its own goroutine.
type fakeDriver struct {
	startErr error
	noLease  bool
	events   chan link.Event
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{events: make(chan link.Event, 8)}
}

func (d *fakeDriver) Start(ctx context.Context, h link.Handler) error {
	if d.startErr != nil {
		return d.startErr
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-d.events:
				h(ev)
			}
		}
	}()
	d.events <- link.Event{Kind: link.EventLayerStarted}
	return nil
}

func (d *fakeDriver) Associate(ssid, password string) error {
	if d.noLease {
		return nil
	}
	d.events <- link.Event{Kind: link.EventAddressAcquired}
	return nil
}

func (d *fakeDriver) IPInfo() (link.IPInfo, error) {
	return link.IPInfo{Address: "192.168.4.17", Netmask: "255.255.255.0", Gateway: "192.168.4.1"}, nil
}

// ---- fake transport ----

type fakeSocket struct {
	connectErr error
	reads      [][]byte
	closes     int
}

func (s *fakeSocket) Connect(netip.AddrPort) error { return s.connectErr }
func (s *fakeSocket) Write(b []byte) (int, error) { return len(b), nil }
func (s *fakeSocket) Close() error { s.closes++; return nil }

func (s *fakeSocket) Read(b []byte) (int, error) {
	if len(s.reads) == 0 {
		return 0, nil
	}
	n := copy(b, s.reads[0])
	s.reads = s.reads[1:]
	return n, nil
}

type fakeTransport struct {
	sock *fakeSocket
}

func (t *fakeTransport) Resolve(context.Context, string, string) ([]netip.AddrPort, error) {
	return []netip.AddrPort{netip.MustParseAddrPort("93.184.216.34:80")}, nil
}

func (t *fakeTransport) Socket(string) (fetch.Socket, error) { return t.sock, nil }

// ---- recording display ----

type recordingDisplay struct {
	mu     sync.Mutex
	stages []uint16
}

func (d *recordingDisplay) Render(s status.Snapshot) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stages = append(d.stages, s.Stage)
	return nil
}

func (d *recordingDisplay) stagesSnapshot() []uint16 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]uint16(nil), d.stages...)
}

// ---- harness ----

type harness struct {
	orch    *Orchestrator
	display *recordingDisplay
	sock    *fakeSocket
	sink    *bytes.Buffer
}

func newHarness(t *testing.T, drv *fakeDriver, sock *fakeSocket) *harness {
	t.Helper()

	logger := log.New(io.Discard, "", 0)
	d := &recordingDisplay{}
	rep := display.NewReporter(d, logger, display.WithSettle(0))
	sink := &bytes.Buffer{}

	mon := link.NewMonitor(drv, link.Credentials{SSID: "plant-ap", Password: "pw"}, logger)
	pipe := fetch.New(&fakeTransport{sock: sock}, rep, sink, logger)

	o, err := New(Config{
		Monitor:  mon,
		Fetcher:  pipe,
		Reporter: rep,
		Request:  fetch.Request{Host: "example.com", Port: "80", Path: "/", UserAgent: "ESP32"},
		SSID:     "plant-ap",
		Logger:   logger,
	})
	require.NoError(t, err)

	return &harness{orch: o, display: d, sock: sock, sink: sink}
}

func runWithTimeout(t *testing.T, o *Orchestrator) (fetch.Outcome, error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	type result struct {
		out fetch.Outcome
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := o.Run(ctx)
		done <- result{out, err}
	}()

	select {
	case r := <-done:
		return r.out, r.err
	case <-time.After(2 * time.Second):
		t.Fatalf("orchestrator did not finish")
		return fetch.Outcome{}, nil
	}
}

// ---- tests ----

func TestRun_StatusOrderOnSuccess(t *testing.T) {
	sock := &fakeSocket{reads: [][]byte{[]byte("HTTP/1.1 200 OK\r\n\r\nbody")}}
	h := newHarness(t, newFakeDriver(), sock)

	out, err := runWithTimeout(t, h.orch)
	require.NoError(t, err)
	require.NoError(t, out.Err)

	assert.Equal(t, []uint16{
		status.StageDeviceReady,
		status.StageConnecting,
		status.StageConnected,
		status.StageRequestSent,
	}, h.display.stages)
	assert.Equal(t, "HTTP/1.1 200 OK\r\n\r\nbody", h.sink.String())
	assert.Equal(t, 1, sock.closes)
}

func TestRun_HaltReportsNothingFurther(t *testing.T) {
	sock := &fakeSocket{connectErr: errors.New("refused")}
	h := newHarness(t, newFakeDriver(), sock)

	out, err := runWithTimeout(t, h.orch)
	require.NoError(t, err)
	assert.ErrorIs(t, out.Err, fetch.ConnectError)

	assert.Equal(t, []uint16{
		status.StageDeviceReady,
		status.StageConnecting,
		status.StageConnected,
	}, h.display.stages)
	assert.Equal(t, 1, sock.closes)
}

func TestRun_LinkStartFailure(t *testing.T) {
	drv := newFakeDriver()
	drv.startErr = errors.New("no radio")
	h := newHarness(t, drv, &fakeSocket{})

	_, err := runWithTimeout(t, h.orch)
	assert.ErrorIs(t, err, drv.startErr)
	assert.Equal(t, []uint16{status.StageDeviceReady}, h.display.stages)
}

func TestRun_CancelWhileWaitingForLink(t *testing.T) {
	drv := newFakeDriver()
	drv.noLease = true
	h := newHarness(t, drv, &fakeSocket{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := h.orch.Run(ctx)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatalf("Run still blocked after cancel")
	}
	assert.Equal(t, []uint16{status.StageDeviceReady, status.StageConnecting}, h.display.stagesSnapshot())
	assert.Zero(t, h.sock.closes)
}

func TestRun_OnlyOnce(t *testing.T) {
	h := newHarness(t, newFakeDriver(), &fakeSocket{})

	_, err := runWithTimeout(t, h.orch)
	require.NoError(t, err)

	_, err = h.orch.Run(context.Background())
	assert.Error(t, err)
}

func TestNew_RejectsBadRequest(t *testing.T) {
	_, err := New(Config{
		Monitor:  link.NewMonitor(newFakeDriver(), link.Credentials{}, nil),
		Fetcher:  fetch.New(&fakeTransport{}, nil, nil, nil),
		Reporter: display.NewReporter(&recordingDisplay{}, nil),
		Request:  fetch.Request{Port: "80", Path: "/"},
	})
	assert.Error(t, err)
}

func TestIdle_ReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		Idle(ctx)
		close(done)
	}()

	select {
	case <-done:
		t.Fatalf("Idle returned before cancel")
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Idle did not return after cancel")
	}
}
