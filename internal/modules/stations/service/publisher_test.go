package service

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"
)

type mockPublisher struct {
	mu       sync.Mutex
	payloads map[string][]byte
	failFor  map[string]bool
	calls    int
}

func (m *mockPublisher) PublishSnapshot(stationID string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failFor[stationID] {
		return errors.New("broker unavailable")
	}
	if m.payloads == nil {
		m.payloads = map[string][]byte{}
	}
	m.payloads[stationID] = payload
	return nil
}

func (m *mockPublisher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestSnapshotLoop_PublishAll(t *testing.T) {
	pub := &mockPublisher{}
	loop := NewSnapshotLoop(newTestService(testFS()), pub, time.Minute, nil)

	if got := loop.PublishAll(); got != 3 {
		t.Fatalf("PublishAll() = %d; want 3", got)
	}

	var ok map[string]any
	if err := json.Unmarshal(pub.payloads["15420"], &ok); err != nil {
		t.Fatalf("decode 15420: %v", err)
	}
	if ok["station"] != "Afumati" || ok["station_id"] != "15420" {
		t.Errorf("15420 snapshot = %v", ok)
	}

	var failed map[string]string
	if err := json.Unmarshal(pub.payloads["15422"], &failed); err != nil {
		t.Fatalf("decode 15422: %v", err)
	}
	if failed["error"] != "No data available in the latest file for station: 15422" {
		t.Errorf("15422 snapshot = %v", failed)
	}
}

func TestSnapshotLoop_PublishFailureContinues(t *testing.T) {
	pub := &mockPublisher{failFor: map[string]bool{"15420": true}}
	loop := NewSnapshotLoop(newTestService(testFS()), pub, time.Minute, nil)

	if got := loop.PublishAll(); got != 2 {
		t.Fatalf("PublishAll() = %d; want 2", got)
	}
	if pub.callCount() != 3 {
		t.Errorf("publish calls = %d; want 3", pub.callCount())
	}
}

func TestSnapshotLoop_RunStopsOnCancel(t *testing.T) {
	pub := &mockPublisher{}
	loop := NewSnapshotLoop(newTestService(testFS()), pub, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for pub.callCount() < 6 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v; want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
	if pub.callCount() < 6 {
		t.Errorf("publish calls = %d; want at least two ticks", pub.callCount())
	}
}

// denyFilesFS lists the directory but refuses to open any file in it.
type denyFilesFS struct{ fstest.MapFS }

func (d denyFilesFS) Open(name string) (fs.File, error) {
	if name == "." {
		return d.MapFS.Open(name)
	}
	return nil, &fs.PathError{Op: "open", Path: "/srv/secret/" + name, Err: fs.ErrPermission}
}

func TestSnapshotLoop_IOFailureHidesDetails(t *testing.T) {
	pub := &mockPublisher{}
	loop := NewSnapshotLoop(newTestService(denyFilesFS{testFS()}), pub, time.Minute, nil)

	loop.PublishAll()

	got := string(pub.payloads["15420"])
	if got != `{"error":"failed to read station data"}` {
		t.Errorf("15420 snapshot = %s; want the generic error", got)
	}
	if strings.Contains(got, "/srv/secret") {
		t.Errorf("snapshot leaks a path: %s", got)
	}
}
