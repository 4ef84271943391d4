package ledger

import "github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/entity"

// Deduplicator remembers identity keys for one batch run. First occurrence wins.
// It is not safe for concurrent use; the orchestrator admits in input order.
type Deduplicator struct {
	seen map[string]struct{}
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Admit records rec's identity key and reports whether it was new.
func (d *Deduplicator) Admit(rec entity.Record) bool {
	key := rec.IdentityKey()
	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}

func (d *Deduplicator) Len() int { return len(d.seen) }
