package jobmgr

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStopWaitsForJob(t *testing.T) {
	m := NewManager(nil)
	var exited atomic.Bool
	started := make(chan struct{})

	_, err := m.StartAsync("play:g1", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		exited.Store(true)
		return ctx.Err()
	})
	if err != nil {
		t.Fatal(err)
	}
	<-started

	if err := m.Stop("play:g1"); err != nil {
		t.Fatal(err)
	}
	if !exited.Load() {
		t.Fatal("Stop returned before the job exited")
	}
	if m.Running("play:g1") {
		t.Fatal("job still listed after Stop")
	}
}

func TestStartDuplicate(t *testing.T) {
	m := NewManager(nil)
	release := make(chan struct{})
	if _, err := m.StartAsync("a", func(context.Context) error { <-release; return nil }); err != nil {
		t.Fatal(err)
	}
	if _, err := m.StartAsync("a", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected duplicate job error")
	}
	close(release)
}

func TestDoneClosedOnCompletion(t *testing.T) {
	var mu sync.Mutex
	var msgs []string
	m := NewManager(func(s string) {
		mu.Lock()
		msgs = append(msgs, s)
		mu.Unlock()
	})

	done, err := m.StartAsync("j", func(context.Context) error { return errors.New("bad") })
	if err != nil {
		t.Fatal(err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("done not closed")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(msgs) != 2 || msgs[0] != "running:j" || msgs[1] != "error:j:bad" {
		t.Fatalf("reports = %q", msgs)
	}
}

func TestStopUnknown(t *testing.T) {
	if err := NewManager(nil).Stop("nope"); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("err = %v, want ErrNotRunning", err)
	}
}

func TestStopAllAndStatus(t *testing.T) {
	m := NewManager(nil)
	block := func(ctx context.Context) error { <-ctx.Done(); return nil }
	for _, n := range []string{"play:1", "play:2", "other"} {
		if _, err := m.StartAsync(n, block); err != nil {
			t.Fatal(err)
		}
	}
	m.StopAll("play:")
	if got := m.Status(); got != "Running jobs: other" {
		t.Fatalf("status = %q", got)
	}
	m.StopAll("")
	if got := m.Status(); got != "No jobs are running." {
		t.Fatalf("status = %q", got)
	}
}
