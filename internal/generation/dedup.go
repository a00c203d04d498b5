package generation

import (
	"crypto/sha256"
	"sync"
)

// DefaultDedupWindow is the number of question hashes remembered before the window is reset.
const DefaultDedupWindow = 1000

// DedupWindow remembers hashes of recently produced questions.
// It is cleared wholesale once it grows beyond its limit.
type DedupWindow struct {
	mu    sync.Mutex
	limit int
	seen  map[[sha256.Size]byte]struct{}
}

// NewDedupWindow creates a window holding at most limit hashes. limit <= 0 uses DefaultDedupWindow.
func NewDedupWindow(limit int) *DedupWindow {
	if limit <= 0 {
		limit = DefaultDedupWindow
	}
	return &DedupWindow{
		limit: limit,
		seen:  make(map[[sha256.Size]byte]struct{}),
	}
}

// Add records the question and reports whether it was new.
func (w *DedupWindow) Add(question string) bool {
	h := sha256.Sum256([]byte(question))

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.seen[h]; ok {
		return false
	}
	if len(w.seen) >= w.limit {
		w.seen = make(map[[sha256.Size]byte]struct{})
	}
	w.seen[h] = struct{}{}
	return true
}

// Len returns the number of remembered hashes.
func (w *DedupWindow) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.seen)
}
