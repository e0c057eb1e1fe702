package vecore

import "testing"

func TestTopKHeapBasic(t *testing.T) {
	h := newTopKHeap(3)
	h.consider(0.1, 1)
	h.consider(0.9, 2)
	h.consider(0.5, 3)
	h.consider(0.2, 4) // better than current min (0.1) -> replaces it
	h.consider(0.05, 5) // worse than new min -> dropped

	got := h.drainSorted()
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	wantOrder := []float32{0.9, 0.5, 0.2}
	for i, w := range wantOrder {
		if got[i].similarity != w {
			t.Errorf("index %d: want similarity %v, got %v", i, w, got[i].similarity)
		}
	}
}

func TestTopKHeapFewerThanK(t *testing.T) {
	h := newTopKHeap(5)
	h.consider(0.3, 1)
	h.consider(0.7, 2)

	got := h.drainSorted()
	if len(got) != 2 {
		t.Fatalf("expected 2 results when fewer than k considered, got %d", len(got))
	}
	if got[0].id != 2 || got[1].id != 1 {
		t.Errorf("unexpected order: %+v", got)
	}
}

func TestTopKHeapZeroK(t *testing.T) {
	h := newTopKHeap(0)
	h.consider(1.0, 1)
	if got := h.drainSorted(); len(got) != 0 {
		t.Errorf("expected 0 results for k=0, got %d", len(got))
	}
}
