package pager

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pgkeeper/internal/clock"
	"pgkeeper/internal/pageutil"
)

func writePoolFile(t *testing.T, pages int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pool.bin")
	buf := make([]byte, pages*pageutil.Size())
	for i := range buf {
		buf[i] = byte(i)
	}
	require.NoError(t, os.WriteFile(path, buf, 0o600))
	return path
}

func TestNewRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := New(path, time.Millisecond, false, clock.NewFakeClock(time.Unix(0, 0)))
	require.Error(t, err)
}

func TestPageinBatchWrapsAroundFile(t *testing.T) {
	path := writePoolFile(t, 2) // fewer pages than one batch
	p, err := New(path, time.Microsecond, false, clock.NewFakeClock(time.Unix(0, 0)))
	require.NoError(t, err)
	defer p.Close()

	p.pageinBatch()
	require.Equal(t, int64(BatchSize)%p.nPages, p.iPage)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	path := writePoolFile(t, 4)
	fc := clock.NewFakeClock(time.Unix(0, 0))
	p, err := New(path, time.Microsecond, false, fc)
	require.NoError(t, err)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
