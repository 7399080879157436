package objstore

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// StageEntry is one raw `git ls-files --unmerged` record: a path's
// content at one of the three merge stages (1=orig, 2=ours, 3=theirs).
type StageEntry struct {
	Path  string
	Stage int
	Mode  Mode
	OID   OID
}

// UnmergedEntries lists every stage 1/2/3 entry currently in the index,
// in index order, for internal/merge's walker to group by path.
func (r *Repository) UnmergedEntries() ([]StageEntry, error) {
	out, err := r.command("ls-files", "--unmerged", "-z").Output()
	if err != nil {
		return nil, fmt.Errorf("listing unmerged entries: %w", err)
	}

	var entries []StageEntry
	for _, rec := range bytes.Split(bytes.TrimRight(out, "\x00"), []byte{0}) {
		if len(rec) == 0 {
			continue
		}
		// Format: "<mode> <oid> <stage>\t<path>"
		tab := bytes.IndexByte(rec, '\t')
		if tab < 0 {
			return nil, fmt.Errorf("malformed ls-files record: %q", rec)
		}
		meta := strings.Fields(string(rec[:tab]))
		if len(meta) != 3 {
			return nil, fmt.Errorf("malformed ls-files metadata: %q", rec[:tab])
		}
		mode, err := ParseMode(meta[0])
		if err != nil {
			return nil, err
		}
		stage, err := strconv.Atoi(meta[2])
		if err != nil {
			return nil, fmt.Errorf("malformed stage %q: %w", meta[2], err)
		}
		entries = append(entries, StageEntry{
			Path:  string(rec[tab+1:]),
			Stage: stage,
			Mode:  mode,
			OID:   OID(meta[1]),
		})
	}
	return entries, nil
}
