package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/orrery/internal/hierarchy"
)

const (
	oneBody  = "0\t30\t60\n1\t1\t1\t0.2\t0.8\t1\t0.01\nsun.jpg\t4\t25\n"
	twoBodies = oneBody + "\tearth.jpg\t1\t1\t16\t365\t0.5\n"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.sol")
	require.NoError(t, os.WriteFile(path, []byte(oneBody), 0644))

	w, err := New(path, nil)
	require.NoError(t, err)
	w.SetDebounce(20 * time.Millisecond)

	scenes := make(chan *hierarchy.Scene, 4)
	errs := make(chan error, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(s *hierarchy.Scene) { scenes <- s }, func(err error) { errs <- err })
	}()

	require.NoError(t, os.WriteFile(path, []byte(twoBodies), 0644))

	select {
	case s := <-scenes:
		assert.Equal(t, 2, s.Tree.Len())
	case err := <-errs:
		t.Fatalf("unexpected reload error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}

	require.NoError(t, os.WriteFile(path, []byte("not a header\n"), 0644))

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, hierarchy.ErrInvalidHeader)
	case <-scenes:
		t.Fatal("malformed file produced a scene")
	case <-time.After(5 * time.Second):
		t.Fatal("no error after malformed write")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "system.sol")
	require.NoError(t, os.WriteFile(path, []byte(oneBody), 0644))

	w, err := New(path, nil)
	require.NoError(t, err)
	defer w.fsw.Close()

	other := filepath.Join(dir, "other.sol")
	assert.False(t, w.relevant(fsnotify.Event{Name: other, Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: path, Op: fsnotify.Write}))
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent", "system.sol"), nil)
	assert.Error(t, err)
}
