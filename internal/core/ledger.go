package core

import "sync"

// Ledger holds the loaded transaction collection for a single transaction
// type and applies local updates from create/delete results instead of
// re-fetching the full list. It never revalidates against the backend after
// a mutation; a concurrent session can therefore make it drift until the
// next full load, which is accepted behavior.
type Ledger struct {
	mu     sync.Mutex
	txType TransactionType
	items  []Transaction
	loaded bool
}

func NewLedger(t TransactionType) *Ledger {
	return &Ledger{txType: t}
}

func (l *Ledger) Type() TransactionType {
	return l.txType
}

// Loaded reports whether at least one full load has succeeded.
func (l *Ledger) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Replace installs the result of a successful full load, keeping server
// order. A failed load must not call Replace, leaving the previous state.
func (l *Ledger) Replace(items []Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = make([]Transaction, len(items))
	copy(l.items, items)
	l.loaded = true
}

// Append adds the server's returned record after a successful create.
func (l *Ledger) Append(t Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, t)
}

// Remove drops the entry with the given identifier after a successful
// delete. It reports whether a matching entry existed.
func (l *Ledger) Remove(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, t := range l.items {
		if t.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns a copy of the current collection in its stored order.
func (l *Ledger) Items() []Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Transaction, len(l.items))
	copy(out, l.items)
	return out
}

// Filtered returns the items whose date lies within the inclusive range.
// With an unbounded range it equals Items. The ledger is never mutated.
func (l *Ledger) Filtered(r DateRange) []Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !r.Bounded() {
		out := make([]Transaction, len(l.items))
		copy(out, l.items)
		return out
	}
	out := make([]Transaction, 0, len(l.items))
	for _, t := range l.items {
		if r.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}
