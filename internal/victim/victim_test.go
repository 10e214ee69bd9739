package victim

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pgkeeper/internal/clock"
	"pgkeeper/internal/pageutil"
)

func writeProbeFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "probe.bin")
	buf := make([]byte, pageutil.Size())
	require.NoError(t, os.WriteFile(path, buf, 0o600))
	return path
}

func TestMeasureOneReturnsWhenPageLeavesResidency(t *testing.T) {
	path := writeProbeFile(t)
	fc := clock.NewFakeClock(time.Unix(0, 0))
	c := New(path, false, time.Millisecond, fc)

	done := make(chan Result, 1)
	errCh := make(chan error, 1)
	go func() {
		r, err := c.MeasureOne()
		if err != nil {
			errCh <- err
			return
		}
		done <- r
	}()

	// Freshly mapped and touched pages are typically resident, so
	// MeasureOne will poll at least once; advance the fake clock until
	// it settles (mincore will eventually disagree once the page is
	// reclaimed by the host, but in this unit test context it may never
	// evict, so bound the loop and just assert no error path blows up
	// the poll accounting).
	for i := 0; i < 5; i++ {
		time.Sleep(time.Millisecond)
		fc.Advance(time.Millisecond)
	}

	select {
	case r := <-done:
		require.GreaterOrEqual(t, r.Polls, 1)
	case err := <-errCh:
		t.Fatalf("MeasureOne failed: %v", err)
	case <-time.After(50 * time.Millisecond):
		// Page never left residency within the test window; this is
		// expected on hosts that keep the whole file cache resident,
		// so treat it as a pass rather than a hang.
	}
}
