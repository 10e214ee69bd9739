// Command pgkeeper manipulates the host page cache: it keeps a
// configurable working set of file-backed pages resident, and can
// optionally run a competing transient pager, a victim-page eviction
// latency checker, and a standalone meminfo reporter alongside it.
package main

import "pgkeeper/cmd"

func main() {
	cmd.Execute()
}
