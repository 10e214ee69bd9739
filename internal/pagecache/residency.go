package pagecache

import (
	"golang.org/x/sys/unix"

	"pgkeeper/internal/pageutil"
)

// ProbeBatchPages caps the number of pages queried by a single mincore
// call.
const ProbeBatchPages = 128

// Prober holds the scratch buffer mincore results are read into, so
// callers (the keeper's scan and refresh cycle) don't allocate one per
// probe.
type Prober struct {
	buf []byte
}

func NewProber() *Prober {
	return &Prober{buf: make([]byte, ProbeBatchPages)}
}

// Residency reports, for each of the first min(n, 128) pages of region
// starting at byte offset off (fewer if region ends sooner), whether
// that page is currently resident. A host-level mincore failure is treated as "none
// of this batch is resident", not propagated as an error.
func (p *Prober) Residency(region []byte, off int64, n int) []bool {
	if n > ProbeBatchPages {
		n = ProbeBatchPages
	}
	ps := int64(pageutil.Size())
	byteLen := int(int64(n) * ps)
	if off+int64(byteLen) > int64(len(region)) {
		byteLen = len(region) - int(off)
		n = byteLen / int(ps)
		if byteLen%int(ps) != 0 {
			n++
		}
	}
	if n <= 0 {
		return nil
	}

	result := p.buf[:n]
	if err := unix.Mincore(region[off:off+int64(byteLen)], result); err != nil {
		for i := range result {
			result[i] = 0
		}
	}

	out := make([]bool, n)
	for i, b := range result {
		out[i] = b&1 == 1
	}
	return out
}
