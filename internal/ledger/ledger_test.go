package ledger

import (
	"fmt"
	"sync"
	"testing"
)

func TestSeenAndMark(t *testing.T) {
	l := New(nil)
	if l.Seen("b1") {
		t.Error("Fresh ledger should not have seen anything")
	}

	l.Mark("b1")
	if !l.Seen("b1") {
		t.Error("Marked ID should be seen")
	}
	if l.Seen("b2") {
		t.Error("Unmarked ID should not be seen")
	}

	// Marking twice is harmless.
	l.Mark("b1")
	if l.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", l.Len())
	}
}

func TestNewSeedsFromIDs(t *testing.T) {
	l := New([]string{"a", "b", "c"})
	for _, id := range []string{"a", "b", "c"} {
		if !l.Seen(id) {
			t.Errorf("Seeded ID %q should be seen", id)
		}
	}
	if l.Len() != 3 {
		t.Errorf("Expected 3 entries, got %d", l.Len())
	}
}

func TestConcurrentMark(t *testing.T) {
	l := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("b%d", n%10)
			l.Mark(id)
			l.Seen(id)
		}(i)
	}
	wg.Wait()
	if l.Len() != 10 {
		t.Errorf("Expected 10 distinct entries, got %d", l.Len())
	}
}
