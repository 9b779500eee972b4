package workload

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"github.com/Rishitha745/MerkleTrees/common"
	"github.com/Rishitha745/MerkleTrees/smt"
)

// Config controls workload generation.
type Config struct {
	// Depth of the target tree; update keys are random Depth-bit paths.
	Depth int

	// TotalOps is the number of operations to generate.
	TotalOps int

	// ReadPercent of the operations are reads, split evenly between root and
	// leaf reads; the rest are updates. Must be in [0;100].
	ReadPercent int

	// MeanGap is the mean of the exponentially distributed inter-arrival
	// gaps. Defaults to 20µs when zero.
	MeanGap time.Duration

	// Seed of the generator's PRNG; equal configurations produce equal
	// workloads.
	Seed uint64
}

const defaultMeanGap = 20 * time.Microsecond

// Generate produces a timed stream of random operations. Arrival timestamps
// start at zero and grow by an exponentially distributed gap per operation,
// modelling a Poisson request process for playback against a dispatcher.
func Generate(config Config) ([]smt.Operation, error) {
	if config.Depth < 0 {
		return nil, fmt.Errorf("%w: depth must be non-negative, got %d", common.ErrInvalidArgument, config.Depth)
	}
	if config.TotalOps <= 0 {
		return nil, fmt.Errorf("%w: total operations must be positive, got %d", common.ErrInvalidArgument, config.TotalOps)
	}
	if config.ReadPercent < 0 || config.ReadPercent > 100 {
		return nil, fmt.Errorf("%w: read percentage must be in [0;100], got %d", common.ErrInvalidArgument, config.ReadPercent)
	}
	meanGap := config.MeanGap
	if meanGap == 0 {
		meanGap = defaultMeanGap
	}

	rng := rand.New(rand.NewSource(config.Seed))
	stream := make([]smt.Operation, 0, config.TotalOps)
	arrival := time.Duration(0)
	for i := 0; i < config.TotalOps; i++ {
		op := randomOperation(rng, config.Depth, config.ReadPercent)
		op.Arrival = arrival
		stream = append(stream, op)
		arrival += time.Duration(rng.ExpFloat64() * float64(meanGap))
	}
	return stream, nil
}

// Updates extracts the update operations of a stream, in stream order, as
// batch engine input.
func Updates(stream []smt.Operation) []smt.Update {
	updates := make([]smt.Update, 0, len(stream))
	for _, op := range stream {
		if op.Kind == smt.OpUpdate {
			updates = append(updates, smt.Update{Key: op.Key, Value: op.Value})
		}
	}
	return updates
}

// Deduplicate reduces a list of updates to one entry per key, keeping the
// last value of each, in first-occurrence order. The batch engine leaves the
// surviving value among duplicates undefined; deduplicated input makes it
// last-write-wins.
func Deduplicate(updates []smt.Update) []smt.Update {
	latest := make(map[string]string, len(updates))
	order := make([]string, 0, len(updates))
	for _, update := range updates {
		if _, seen := latest[update.Key]; !seen {
			order = append(order, update.Key)
		}
		latest[update.Key] = update.Value
	}
	result := make([]smt.Update, 0, len(order))
	for _, key := range order {
		result = append(result, smt.Update{Key: key, Value: latest[key]})
	}
	return result
}

func randomOperation(rng *rand.Rand, depth, readPercent int) smt.Operation {
	if rng.Intn(100) < readPercent {
		if rng.Intn(2) == 0 {
			return smt.Operation{Kind: smt.OpReadRoot}
		}
		return smt.Operation{Kind: smt.OpReadLeaf, Key: randomKey(rng, depth)}
	}
	return smt.Operation{
		Kind:  smt.OpUpdate,
		Key:   randomKey(rng, depth),
		Value: fmt.Sprintf("%d", rng.Intn(1000)),
	}
}

func randomKey(rng *rand.Rand, depth int) string {
	key := make([]byte, depth)
	for i := range key {
		key[i] = byte('0' + rng.Intn(2))
	}
	return string(key)
}
