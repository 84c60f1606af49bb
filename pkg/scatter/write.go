package scatter

import "fmt"

// WriteEntry is one fully resolved write. Unlike reads there is no
// dependency resolution; address and bytes must be known up front.
type WriteEntry struct {
	Addr uint64
	Data []byte
}

// Write stages every entry into one provider transaction and commits it
// once, uncached. Staging or commit failure fails the whole batch; target
// memory is only modified by a successful commit.
func Write(p Provider, pid int, entries []WriteEntry) error {
	for _, w := range entries {
		if err := p.StageWrite(pid, w.Addr, w.Data); err != nil {
			p.DiscardWrites(pid)
			return fmt.Errorf("stage %d bytes at %#x: %w", len(w.Data), w.Addr, err)
		}
	}
	if err := p.CommitWrites(pid); err != nil {
		return fmt.Errorf("commit %d writes to pid %d: %w", len(entries), pid, err)
	}
	return nil
}
