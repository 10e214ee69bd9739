// Package pagecache wraps the host interfaces this tool depends on: a
// private file-backed mapping primitive with an execute-permission
// option, advice to suppress read-ahead and exclude a region from core
// dumps, and a page-granularity residency query.
package pagecache

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"pgkeeper/internal/pageutil"
)

// Mapping is a private, read-only (optionally execute) memory map of a
// file, plus its stat-derived (device, inode) identity.
type Mapping struct {
	Data       []byte
	Dev        uint64
	Ino        uint64
	Size       int64
	Executable bool
}

// MapFile opens path and maps its entire contents private+read-only,
// optionally also executable. If wantExec is true and PROT_EXEC is
// denied by the host, it transparently falls back to a non-executable
// mapping.
func MapFile(path string, wantExec bool) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pagecache: open %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("pagecache: stat %s: %w", path, err)
	}
	if st.IsDir() || st.Size() == 0 {
		return nil, fmt.Errorf("pagecache: %s is not a regular non-empty file", path)
	}

	size := int(pageutil.AlignUp(st.Size()))
	prot := unix.PROT_READ

	executable := false
	var data []byte
	if wantExec {
		data, err = mapWithProt(f, size, prot|unix.PROT_EXEC)
		executable = err == nil
	}
	if !executable {
		data, err = mapWithProt(f, size, prot)
	}
	if err != nil {
		return nil, fmt.Errorf("pagecache: mmap %s: %w", path, err)
	}

	// Advice failures are not fatal: the kernel simply keeps its
	// default read-ahead and core-dump behavior.
	_ = unix.Madvise(data, unix.MADV_RANDOM)
	_ = unix.Madvise(data, unix.MADV_DONTDUMP)

	dev, ino := statIdentity(st)

	return &Mapping{
		Data:       data[:st.Size()],
		Dev:        dev,
		Ino:        ino,
		Size:       st.Size(),
		Executable: executable,
	}, nil
}

func mapWithProt(f *os.File, size, prot int) ([]byte, error) {
	return unix.Mmap(int(f.Fd()), 0, size, prot, unix.MAP_PRIVATE)
}

// Unmap releases the mapping. Safe to call on a mapping whose pages have
// already faulted dead.
func (m *Mapping) Unmap() error {
	if m.Data == nil {
		return nil
	}
	err := unix.Munmap(m.Data)
	m.Data = nil
	return err
}
