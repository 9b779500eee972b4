package workload

import (
	"errors"
	"testing"

	"github.com/Rishitha745/MerkleTrees/common"
	"github.com/Rishitha745/MerkleTrees/smt"
)

func TestGenerate_RejectsInvalidConfigurations(t *testing.T) {
	configs := map[string]Config{
		"negative depth": {Depth: -1, TotalOps: 10},
		"zero ops":       {Depth: 3, TotalOps: 0},
		"negative ops":   {Depth: 3, TotalOps: -5},
		"reads over 100": {Depth: 3, TotalOps: 10, ReadPercent: 101},
		"negative reads": {Depth: 3, TotalOps: 10, ReadPercent: -1},
	}
	for name, config := range configs {
		t.Run(name, func(t *testing.T) {
			if _, err := Generate(config); !errors.Is(err, common.ErrInvalidArgument) {
				t.Errorf("expected %v, got %v", common.ErrInvalidArgument, err)
			}
		})
	}
}

func TestGenerate_ProducesRequestedNumberOfOperations(t *testing.T) {
	stream, err := Generate(Config{Depth: 5, TotalOps: 100, ReadPercent: 30})
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	if got, want := len(stream), 100; got != want {
		t.Errorf("wrong stream length: got %d, want %d", got, want)
	}
}

func TestGenerate_KeysMatchTheTreeDepth(t *testing.T) {
	const depth = 6
	stream, err := Generate(Config{Depth: depth, TotalOps: 200, ReadPercent: 50})
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	tree, err := smt.NewTree(depth)
	if err != nil {
		t.Fatalf("failed to build tree: %v", err)
	}
	for _, op := range stream {
		if op.Kind == smt.OpReadRoot {
			continue
		}
		if _, err := tree.LeafNode(op.Key); err != nil {
			t.Errorf("generated key %q is not a leaf of a depth-%d tree: %v", op.Key, depth, err)
		}
	}
}

func TestGenerate_ReadPercentBounds(t *testing.T) {
	onlyUpdates, err := Generate(Config{Depth: 4, TotalOps: 100, ReadPercent: 0})
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	for _, op := range onlyUpdates {
		if op.Kind != smt.OpUpdate {
			t.Fatalf("read operation generated with read percentage 0")
		}
	}

	onlyReads, err := Generate(Config{Depth: 4, TotalOps: 100, ReadPercent: 100})
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	for _, op := range onlyReads {
		if op.Kind == smt.OpUpdate {
			t.Fatalf("update operation generated with read percentage 100")
		}
	}
}

func TestGenerate_ArrivalsAreMonotonic(t *testing.T) {
	stream, err := Generate(Config{Depth: 4, TotalOps: 500})
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	for i := 1; i < len(stream); i++ {
		if stream[i].Arrival < stream[i-1].Arrival {
			t.Fatalf("arrival times not monotonic at position %d", i)
		}
	}
	if stream[0].Arrival != 0 {
		t.Errorf("first arrival should be zero, got %v", stream[0].Arrival)
	}
}

func TestGenerate_SameSeedSameWorkload(t *testing.T) {
	config := Config{Depth: 5, TotalOps: 50, ReadPercent: 20, Seed: 123}
	first, err := Generate(config)
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	second, err := Generate(config)
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("streams diverge at position %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestUpdates_ExtractsUpdatesInOrder(t *testing.T) {
	stream := []smt.Operation{
		{Kind: smt.OpUpdate, Key: "00", Value: "a"},
		{Kind: smt.OpReadRoot},
		{Kind: smt.OpUpdate, Key: "11", Value: "b"},
		{Kind: smt.OpReadLeaf, Key: "01"},
	}
	updates := Updates(stream)
	want := []smt.Update{{Key: "00", Value: "a"}, {Key: "11", Value: "b"}}
	if len(updates) != len(want) {
		t.Fatalf("wrong number of updates: got %d, want %d", len(updates), len(want))
	}
	for i := range want {
		if updates[i] != want[i] {
			t.Errorf("wrong update at %d: got %v, want %v", i, updates[i], want[i])
		}
	}
}

func TestDeduplicate_KeepsTheLastValuePerKey(t *testing.T) {
	updates := []smt.Update{
		{Key: "00", Value: "a"},
		{Key: "11", Value: "b"},
		{Key: "00", Value: "c"},
	}
	deduped := Deduplicate(updates)
	want := []smt.Update{{Key: "00", Value: "c"}, {Key: "11", Value: "b"}}
	if len(deduped) != len(want) {
		t.Fatalf("wrong number of updates: got %d, want %d", len(deduped), len(want))
	}
	for i := range want {
		if deduped[i] != want[i] {
			t.Errorf("wrong update at %d: got %v, want %v", i, deduped[i], want[i])
		}
	}
}
