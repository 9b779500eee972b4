package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Rishitha745/MerkleTrees/common"
	"github.com/Rishitha745/MerkleTrees/results"
	"github.com/Rishitha745/MerkleTrees/smt"
	"github.com/Rishitha745/MerkleTrees/workload"
)

const errCanceled = common.ConstError("benchmark interrupted")

// registerInterrupt catches SIGINT and SIGTERM and cancels the returned
// context, so a run aborts between operations rather than mid-measurement.
// The abandoned run can be replayed from its seed.
func registerInterrupt(parent context.Context, seed uint64) context.Context {
	ctx, cancel := context.WithCancel(parent)
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		defer signal.Stop(c)
		select {
		case <-c:
			log.Printf("interrupted, abandoning the run; replay it with --seed %d", seed)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx
}

var Bench = cli.Command{
	Action: addPerformanceDiagnoses(bench),
	Name:   "bench",
	Usage:  "benchmark live, batched and serial updates over one workload",
	Description: "Reads `depth batch_size num_workers total_ops` from stdin, " +
		"replays a random timed workload against all three engines and " +
		"reports per-operation response times.",
	Flags: []cli.Flag{
		&readPercentFlag,
		&seedFlag,
		&csvDirFlag,
		&archiveFlag,
		&keccakFlag,
	},
}

var (
	keccakFlag = cli.BoolFlag{
		Name:  "keccak",
		Usage: "hash with legacy Keccak256 instead of SHA-256, for comparison runs",
	}
	readPercentFlag = cli.IntFlag{
		Name:  "reads",
		Usage: "percentage of read operations in the generated workload",
		Value: 0,
	}
	seedFlag = cli.Uint64Flag{
		Name:  "seed",
		Usage: "the seed for the workload generator, 0 for a time-based seed",
		Value: 0,
	}
	csvDirFlag = cli.StringFlag{
		Name:  "csv",
		Usage: "directory for raw latency and summary CSV files, disabled if empty",
		Value: "",
	}
	archiveFlag = cli.StringFlag{
		Name:  "db",
		Usage: "directory of a LevelDB archive to append this run's summary to, disabled if empty",
		Value: "",
	}
)

// benchParams are the four stdin-provided benchmark parameters, plus the
// flag-selected hasher all three engines run with.
type benchParams struct {
	depth     int
	batchSize int
	threads   int
	totalOps  int

	hasher common.Hasher
}

func readParams(in io.Reader) (benchParams, error) {
	var p benchParams
	if _, err := fmt.Fscan(in, &p.depth, &p.batchSize, &p.threads, &p.totalOps); err != nil {
		return p, fmt.Errorf("%w: expected `depth batch_size num_workers total_ops`; %v", common.ErrInvalidArgument, err)
	}
	return p, p.validate()
}

func (p benchParams) validate() error {
	if p.depth < 0 {
		return fmt.Errorf("%w: depth must be non-negative, got %d", common.ErrInvalidArgument, p.depth)
	}
	if p.batchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive, got %d", common.ErrInvalidArgument, p.batchSize)
	}
	if p.threads <= 0 || p.threads > smt.MaxWorkers {
		return fmt.Errorf("%w: number of workers must be in [1;%d], got %d", common.ErrInvalidArgument, smt.MaxWorkers, p.threads)
	}
	if p.totalOps <= 0 {
		return fmt.Errorf("%w: total operations must be positive, got %d", common.ErrInvalidArgument, p.totalOps)
	}
	return nil
}

func bench(context *cli.Context) error {
	fmt.Print("Enter depth, batch_size, num_workers, total_ops: ")
	params, err := readParams(os.Stdin)
	if err != nil {
		return err
	}
	readPercent := context.Int(readPercentFlag.Name)
	params.hasher = common.NewSha256Hasher()
	if context.Bool(keccakFlag.Name) {
		params.hasher = common.NewKeccak256Hasher()
	}

	seed := context.Uint64(seedFlag.Name)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	fmt.Printf("Depth=%d Batch=%d Workers=%d Ops=%d Reads=%d%% Seed=%d\n",
		params.depth, params.batchSize, params.threads, params.totalOps, readPercent, seed)

	stream, err := workload.Generate(workload.Config{
		Depth:       params.depth,
		TotalOps:    params.totalOps,
		ReadPercent: readPercent,
		Seed:        seed,
	})
	if err != nil {
		return err
	}
	updates := workload.Updates(stream)

	ctx := registerInterrupt(context.Context, seed)

	fmt.Println("Running live engine ...")
	liveTimes, err := runLive(ctx, params, stream)
	if err != nil {
		return err
	}

	fmt.Println("Running batch engine ...")
	angelaTimes, err := runAngela(ctx, params, updates)
	if err != nil {
		return err
	}

	fmt.Println("Running serial oracle ...")
	serialTimes, err := runSerial(ctx, params, updates)
	if err != nil {
		return err
	}

	summary := results.Summary{
		Depth:     params.depth,
		Threads:   params.threads,
		Batch:     params.batchSize,
		Ops:       params.totalOps,
		AvgLive:   results.Average(liveTimes),
		AvgAngela: results.Average(angelaTimes),
		AvgSerial: results.Average(serialTimes),
	}
	report("live", liveTimes)
	report("angela", angelaTimes)
	report("serial", serialTimes)

	if dir := context.String(csvDirFlag.Name); len(dir) > 0 {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		if err := results.WriteLatencyFile(filepath.Join(dir, "live_latencies.csv"), liveTimes); err != nil {
			return err
		}
		if err := results.WriteSummaryFile(filepath.Join(dir, "summary.csv"), []results.Summary{summary}); err != nil {
			return err
		}
		fmt.Printf("CSV results written to %s\n", dir)
	}

	if dir := context.String(archiveFlag.Name); len(dir) > 0 {
		store, err := results.OpenStore(dir)
		if err != nil {
			return err
		}
		runId := fmt.Sprintf("%d", seed)
		if err := store.Put(runId, summary); err != nil {
			store.Close()
			return err
		}
		if err := store.Close(); err != nil {
			return err
		}
		fmt.Printf("Summary archived as run %s in %s\n", runId, dir)
	}
	return nil
}

// runLive replays the timed stream against a dispatcher in real time and
// returns the per-operation response times.
func runLive(ctx context.Context, params benchParams, stream []smt.Operation) ([]time.Duration, error) {
	tree, err := smt.NewTreeWithHasher(params.depth, params.hasher)
	if err != nil {
		return nil, err
	}
	dispatcher, err := smt.NewDispatcher(tree, smt.NewLiveEngine(), params.threads)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	for _, op := range stream {
		if ctx.Err() != nil {
			dispatcher.Close()
			return nil, errCanceled
		}
		if gap := op.Arrival - time.Since(start); gap > 0 {
			time.Sleep(gap)
		}
		if err := dispatcher.Submit(op); err != nil {
			dispatcher.Close()
			return nil, err
		}
	}
	if err := dispatcher.Close(); err != nil {
		return nil, err
	}
	return results.Flatten(dispatcher.ResponseTimes()), nil
}

// runAngela applies the workload's updates in batches of the configured size
// and returns the per-update processing time, evenly attributed within each
// batch.
func runAngela(ctx context.Context, params benchParams, updates []smt.Update) ([]time.Duration, error) {
	tree, err := smt.NewTreeWithHasher(params.depth, params.hasher)
	if err != nil {
		return nil, err
	}
	engine := smt.NewBatchEngine()
	times := make([]time.Duration, 0, len(updates))
	for from := 0; from < len(updates); from += params.batchSize {
		if ctx.Err() != nil {
			return nil, errCanceled
		}
		to := from + params.batchSize
		if to > len(updates) {
			to = len(updates)
		}
		batch := workload.Deduplicate(updates[from:to])
		elapsed, err := engine.ProcessBatch(tree, batch, params.threads)
		if err != nil {
			return nil, err
		}
		perUpdate := elapsed / time.Duration(to-from)
		for i := from; i < to; i++ {
			times = append(times, perUpdate)
		}
	}
	return times, nil
}

// runSerial applies the updates one by one without synchronisation, timing
// each application.
func runSerial(ctx context.Context, params benchParams, updates []smt.Update) ([]time.Duration, error) {
	tree, err := smt.NewTreeWithHasher(params.depth, params.hasher)
	if err != nil {
		return nil, err
	}
	times := make([]time.Duration, 0, len(updates))
	for _, update := range updates {
		if ctx.Err() != nil {
			return nil, errCanceled
		}
		start := time.Now()
		if err := smt.UpdateSerial(tree, update.Key, update.Value); err != nil {
			return nil, err
		}
		times = append(times, time.Since(start))
	}
	return times, nil
}

func report(name string, times []time.Duration) {
	fmt.Printf("%-7s avg=%v p50=%v p90=%v p99=%v (%d ops)\n",
		name,
		results.Average(times),
		results.Percentile(times, 0.5),
		results.Percentile(times, 0.9),
		results.Percentile(times, 0.99),
		len(times))
}
