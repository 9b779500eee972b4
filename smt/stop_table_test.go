package smt

import (
	"sync"
	"testing"
)

func TestStopTable_StartsAtZero(t *testing.T) {
	stops := newStopTable(4)
	for worker := 0; worker < 4; worker++ {
		if got, want := stops.get(worker), 0; got != want {
			t.Errorf("cursor %d not zero: got %d", worker, got)
		}
	}
}

func TestStopTable_AdvanceIsMonotonic(t *testing.T) {
	stops := newStopTable(2)
	stops.advance(0, 5)
	if got, want := stops.get(0), 5; got != want {
		t.Errorf("wrong cursor: got %d, want %d", got, want)
	}
	stops.advance(0, 3)
	if got, want := stops.get(0), 5; got != want {
		t.Errorf("cursor moved backwards: got %d, want %d", got, want)
	}
	stops.advance(0, 8)
	if got, want := stops.get(0), 8; got != want {
		t.Errorf("wrong cursor: got %d, want %d", got, want)
	}
	if got, want := stops.get(1), 0; got != want {
		t.Errorf("unrelated cursor moved: got %d", got)
	}
}

func TestStopTable_StoppedComparesAgainstCursor(t *testing.T) {
	stops := newStopTable(2)
	stops.advance(0, 5)
	tests := []struct {
		id   UpdateId
		want bool
	}{
		{UpdateId{Worker: 0, Count: 4}, true},
		{UpdateId{Worker: 0, Count: 5}, true},
		{UpdateId{Worker: 0, Count: 6}, false},
		{UpdateId{Worker: 1, Count: 1}, false},
		{NoUpdate(), false},
	}
	for _, test := range tests {
		if got, want := stops.stopped(test.id), test.want; got != want {
			t.Errorf("wrong stop verdict for %v: got %t, want %t", test.id, got, want)
		}
	}
}

func TestStopTable_ConcurrentAdvanceKeepsMaximum(t *testing.T) {
	stops := newStopTable(1)
	const N = 1000
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for count := 1 + offset; count <= N; count += 10 {
				stops.advance(0, count)
			}
		}(i)
	}
	wg.Wait()
	if got, want := stops.get(0), N; got != want {
		t.Errorf("lost the maximum under contention: got %d, want %d", got, want)
	}
}
