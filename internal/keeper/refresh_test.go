package keeper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pgkeeper/internal/pagecache"
)

func newProbedRecord(t *testing.T, path string, pages int) *record {
	t.Helper()
	m, err := pagecache.MapFile(path, false)
	require.NoError(t, err)
	pagecache.Touch(m.Data, 0) // fault the first page in so mincore reports it resident
	return &record{
		mapping: m,
		ranges:  []byteRange{{off: 0, nPages: 1}},
		nPages:  1,
	}
}

func TestRefreshRecordCountsResidentFractionInDefaultMode(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "f", 1)

	k := newTestKeeper(10)
	rec := newProbedRecord(t, path, 1)
	defer rec.mapping.Unmap()

	accounted := k.refreshRecord(context.Background(), rec, 1)

	require.Equal(t, int64(1), accounted)
	require.Equal(t, int64(1), k.stats.probed)
	// The page was just faulted in, so the probe should have found it
	// resident and the touch still happens unconditionally either way.
	require.Equal(t, int64(1), k.stats.foundResident)
}

func TestRefreshRecordTouchesResidentUnderRefreshOnlyResident(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "f", 1)

	k := newTestKeeper(10)
	k.refreshOnlyResident = true
	rec := newProbedRecord(t, path, 1)
	defer rec.mapping.Unmap()

	accounted := k.refreshRecord(context.Background(), rec, 1)

	require.Equal(t, int64(1), accounted)
	require.Equal(t, int64(1), k.stats.probed)
	require.Equal(t, int64(1), k.stats.foundResident)
}
