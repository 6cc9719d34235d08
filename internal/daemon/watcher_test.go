package daemon

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_DebouncesBurstIntoOneRebuild(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "plugin"), 0o755))

	var rebuilds atomic.Int32
	w, err := NewWatcher(root, 50*time.Millisecond, func() { rebuilds.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	for i := range 5 {
		path := filepath.Join(root, "plugin", "metadata.yaml")
		require.NoError(t, os.WriteFile(path, []byte("rev: "+string(rune('a'+i))+"\n"), 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return rebuilds.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	// The burst collapses into one rebuild.
	time.Sleep(150 * time.Millisecond)
	require.Equal(t, int32(1), rebuilds.Load())

	cancel()
	<-done
}

func TestWatcher_PicksUpNewDirectories(t *testing.T) {
	root := t.TempDir()

	var rebuilds atomic.Int32
	w, err := NewWatcher(root, 20*time.Millisecond, func() { rebuilds.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	newDir := filepath.Join(root, "fresh")
	require.NoError(t, os.MkdirAll(newDir, 0o755))
	require.Eventually(t, func() bool { return rebuilds.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	before := rebuilds.Load()
	require.NoError(t, os.WriteFile(filepath.Join(newDir, "metadata.yaml"), []byte("name: x\n"), 0o644))
	require.Eventually(t, func() bool { return rebuilds.Load() > before }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_MissingRoot(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "absent"), time.Second, func() {})
	require.Error(t, err)
}

func TestScheduler_Lifecycle(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)

	fired := make(chan struct{}, 1)
	id, err := s.ScheduleGeneration(20*time.Millisecond, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	s.Start()
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled task never fired")
	}
	require.NoError(t, s.Stop())
}
