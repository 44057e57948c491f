// internal/link/monitor_test.go
package link

import (
	"context"
	"errors"
	"io"
	"log"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fake driver ----

type fakeDriver struct {
	mu         sync.Mutex
	handler    Handler
	associated []Credentials
	startErr   error
	assocErr   error
	info       IPInfo
}

func (f *fakeDriver) Start(ctx context.Context, h Handler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.handler = h
	return nil
}

func (f *fakeDriver) Associate(ssid, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.associated = append(f.associated, Credentials{SSID: ssid, Password: password})
	return f.assocErr
}

func (f *fakeDriver) IPInfo() (IPInfo, error) {
	return f.info, nil
}

func (f *fakeDriver) emit(kind EventKind) {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	h(Event{Kind: kind})
}

func (f *fakeDriver) associations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.associated)
}

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func newStartedMonitor(t *testing.T) (*Monitor, *fakeDriver) {
	t.Helper()
	d := &fakeDriver{}
	m := NewMonitor(d, Credentials{SSID: "plant-ap", Password: "secret"}, quietLogger())
	require.NoError(t, m.Start(context.Background()))
	return m, d
}

// ---- tests ----

func TestMonitor_HappyPath(t *testing.T) {
	m, d := newStartedMonitor(t)
	assert.Equal(t, Disconnected, m.State())

	d.emit(EventLayerStarted)
	assert.Equal(t, Connecting, m.State())
	require.Equal(t, 1, d.associations())
	assert.Equal(t, Credentials{SSID: "plant-ap", Password: "secret"}, d.associated[0])
	assert.False(t, m.Ready())

	d.emit(EventAddressAcquired)
	assert.Equal(t, Connected, m.State())
	assert.True(t, m.Ready())

	d.emit(EventDisconnected)
	assert.Equal(t, Disconnected, m.State())
	assert.False(t, m.Ready())
}

func TestMonitor_NoDirectDisconnectedToConnected(t *testing.T) {
	m, d := newStartedMonitor(t)

	d.emit(EventAddressAcquired)
	assert.Equal(t, Disconnected, m.State())
	assert.False(t, m.Ready())
}

func TestMonitor_DuplicateLayerStartedAssociatesOnce(t *testing.T) {
	m, d := newStartedMonitor(t)

	d.emit(EventLayerStarted)
	d.emit(EventLayerStarted)
	d.emit(EventAddressAcquired)
	d.emit(EventLayerStarted)

	assert.Equal(t, 1, d.associations())
	assert.Equal(t, Connected, m.State())
}

func TestMonitor_OtherEventsIgnored(t *testing.T) {
	m, d := newStartedMonitor(t)

	d.emit(EventOther)
	assert.Equal(t, Disconnected, m.State())

	d.emit(EventLayerStarted)
	d.emit(EventOther)
	assert.Equal(t, Connecting, m.State())
}

func TestMonitor_AssociationFailureStaysConnecting(t *testing.T) {
	d := &fakeDriver{assocErr: errors.New("radio busy")}
	m := NewMonitor(d, Credentials{SSID: "x"}, quietLogger())
	require.NoError(t, m.Start(context.Background()))

	d.emit(EventLayerStarted)
	assert.Equal(t, Connecting, m.State())
}

func TestMonitor_StartErrorWrapped(t *testing.T) {
	d := &fakeDriver{startErr: errors.New("no radio")}
	m := NewMonitor(d, Credentials{}, quietLogger())

	err := m.Start(context.Background())
	assert.ErrorIs(t, err, d.startErr)
}

func TestMonitor_AwaitReadyBlocksUntilAddress(t *testing.T) {
	m, d := newStartedMonitor(t)

	done := make(chan struct{})
	go func() {
		m.AwaitReady()
		close(done)
	}()

	d.emit(EventLayerStarted)
	select {
	case <-done:
		t.Fatalf("AwaitReady returned before address acquired")
	case <-time.After(20 * time.Millisecond):
	}

	d.emit(EventAddressAcquired)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("AwaitReady did not return after address acquired")
	}
}

func TestMonitor_AwaitReadyBlocksAfterDisconnect(t *testing.T) {
	m, d := newStartedMonitor(t)

	d.emit(EventLayerStarted)
	d.emit(EventAddressAcquired)
	d.emit(EventDisconnected)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, m.AwaitReadyContext(ctx), context.DeadlineExceeded)
}

// Random event sequences must only walk allowed edges, and readiness must
// track "last applied event was address-acquired".
func TestMonitor_RandomSequencesKeepInvariants(t *testing.T) {
	allowed := map[[2]State]bool{
		{Disconnected, Connecting}: true,
		{Connecting, Connected}:    true,
		{Connected, Disconnected}:  true,
		{Connecting, Disconnected}: true,
	}
	kinds := []EventKind{EventOther, EventLayerStarted, EventAddressAcquired, EventDisconnected}
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 200; run++ {
		m, d := newStartedMonitor(t)
		lastApplied := EventOther

		for step := 0; step < 40; step++ {
			kind := kinds[rng.Intn(len(kinds))]
			before := m.State()
			d.emit(kind)
			after := m.State()

			if before != after {
				require.Truef(t, allowed[[2]State{before, after}],
					"run=%d step=%d illegal transition %s -> %s on %s", run, step, before, after, kind)
				lastApplied = kind
			}

			assert.Equal(t, after == Connected, m.Ready())
			assert.Equal(t, lastApplied == EventAddressAcquired, m.Ready())
		}
	}
}

func TestMonitor_IPInfo(t *testing.T) {
	d := &fakeDriver{info: IPInfo{Address: "10.0.0.9", Netmask: "255.255.255.0", Gateway: "10.0.0.1"}}
	m := NewMonitor(d, Credentials{}, quietLogger())

	info, err := m.IPInfo()
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.9", info.Address)
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "connecting", Connecting.String())
	assert.Equal(t, "address-acquired", EventAddressAcquired.String())
	assert.Equal(t, "state(9)", State(9).String())
}
