// Package meminfo parses /proc/meminfo and runs a periodic reporter
// loop, used standalone when the resident keeper is inactive and folded
// into the keeper's own status line otherwise.
package meminfo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Stats holds the /proc/meminfo fields this tool reports, all in bytes
// (the file reports kB; this package converts).
type Stats struct {
	TotalBytes          uint64
	FreeBytes           uint64
	ActiveAnonBytes     uint64
	InactiveAnonBytes   uint64
	ActiveFileBytes     uint64
	InactiveFileBytes   uint64
}

// Read parses /proc/meminfo and populates a Stats. A field missing from
// the file is left at zero; only a read/parse failure of the file itself
// is an error.
func Read() (Stats, error) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return Stats{}, fmt.Errorf("meminfo: open: %w", err)
	}
	defer f.Close()
	return parse(f)
}

func parse(r io.Reader) (Stats, error) {
	var s Stats
	targets := map[string]*uint64{
		"MemTotal":       &s.TotalBytes,
		"MemFree":        &s.FreeBytes,
		"Active(anon)":   &s.ActiveAnonBytes,
		"Inactive(anon)": &s.InactiveAnonBytes,
		"Active(file)":   &s.ActiveFileBytes,
		"Inactive(file)": &s.InactiveFileBytes,
	}

	found := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() && found < len(targets) {
		line := sc.Text()
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			continue
		}
		key := line[:colon]
		dst, ok := targets[key]
		if !ok {
			continue
		}

		fields := strings.Fields(strings.TrimSpace(line[colon+1:]))
		if len(fields) == 0 {
			return Stats{}, fmt.Errorf("meminfo: malformed line %q", line)
		}
		kb, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return Stats{}, fmt.Errorf("meminfo: parse %q: %w", line, err)
		}
		*dst = kb * 1024
		found++
	}
	if err := sc.Err(); err != nil {
		return Stats{}, fmt.Errorf("meminfo: scan: %w", err)
	}
	return s, nil
}

// String renders a single-line human-readable summary (active file,
// inactive file, free) in units of pages given pageSize.
func (s Stats) String(pageSize int) string {
	return fmt.Sprintf("active file %d, inactive file %d, free %d",
		s.ActiveFileBytes/uint64(pageSize),
		s.InactiveFileBytes/uint64(pageSize),
		s.FreeBytes/uint64(pageSize))
}
