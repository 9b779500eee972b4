package results

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/exp/slices"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return store
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	store := openTestStore(t)
	summary := Summary{
		Depth:     10,
		Threads:   8,
		Batch:     200,
		Ops:       50000,
		AvgLive:   120 * time.Microsecond,
		AvgAngela: 80 * time.Microsecond,
		AvgSerial: 400 * time.Microsecond,
	}
	if err := store.Put("run-1", summary); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	restored, err := store.Get("run-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got, want := restored, summary; got != want {
		t.Errorf("wrong record: got %+v, want %+v", got, want)
	}
}

func TestStore_GetUnknownRunFails(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Get("missing"); !errors.Is(err, ErrUnknownRun) {
		t.Errorf("expected %v, got %v", ErrUnknownRun, err)
	}
}

func TestStore_PutOverwritesExistingRecord(t *testing.T) {
	store := openTestStore(t)
	if err := store.Put("run-1", Summary{Ops: 1}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := store.Put("run-1", Summary{Ops: 2}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	restored, err := store.Get("run-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got, want := restored.Ops, 2; got != want {
		t.Errorf("record not overwritten: got %d, want %d", got, want)
	}
}

func TestStore_ListReturnsAllRunIds(t *testing.T) {
	store := openTestStore(t)
	for _, id := range []string{"b", "a", "c"} {
		if err := store.Put(id, Summary{}); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}
	ids, err := store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if want := []string{"a", "b", "c"}; !slices.Equal(ids, want) {
		t.Errorf("wrong run ids: got %v, want %v", ids, want)
	}
}
