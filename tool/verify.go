package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Rishitha745/MerkleTrees/common"
	"github.com/Rishitha745/MerkleTrees/smt"
	"github.com/Rishitha745/MerkleTrees/workload"
)

var Verify = cli.Command{
	Action: verify,
	Name:   "verify",
	Usage:  "cross-check both concurrent engines against the serial oracle",
	Flags: []cli.Flag{
		&depthFlag,
		&opsFlag,
		&workersFlag,
		&seedFlag,
	},
}

var (
	depthFlag = cli.IntFlag{
		Name:  "depth",
		Usage: "depth of the verified tree",
		Value: 10,
	}
	opsFlag = cli.IntFlag{
		Name:  "ops",
		Usage: "number of random updates to verify with",
		Value: 1000,
	}
	workersFlag = cli.IntFlag{
		Name:  "workers",
		Usage: "number of workers for the batch engine",
		Value: 8,
	}
)

func verify(context *cli.Context) error {
	depth := context.Int(depthFlag.Name)
	ops := context.Int(opsFlag.Name)
	workers := context.Int(workersFlag.Name)
	if workers <= 0 || workers > smt.MaxWorkers {
		return fmt.Errorf("%w: number of workers must be in [1;%d], got %d", common.ErrInvalidArgument, smt.MaxWorkers, workers)
	}
	seed := context.Uint64(seedFlag.Name)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	fmt.Printf("Verifying with depth=%d ops=%d workers=%d seed=%d\n", depth, ops, workers, seed)

	stream, err := workload.Generate(workload.Config{Depth: depth, TotalOps: ops, Seed: seed})
	if err != nil {
		return err
	}
	updates := workload.Deduplicate(workload.Updates(stream))

	serial, err := smt.NewTree(depth)
	if err != nil {
		return err
	}
	for _, update := range updates {
		if err := smt.UpdateSerial(serial, update.Key, update.Value); err != nil {
			return err
		}
	}
	want := serial.RootHash()

	batch, err := smt.NewTree(depth)
	if err != nil {
		return err
	}
	if _, err := smt.NewBatchEngine().ProcessBatch(batch, updates, workers); err != nil {
		return err
	}
	if got := batch.RootHash(); got != want {
		return fmt.Errorf("batch engine diverged from the serial oracle: got %s, want %s", got, want)
	}
	fmt.Println("batch engine matches the serial oracle")

	live, err := smt.NewTree(depth)
	if err != nil {
		return err
	}
	engine := smt.NewLiveEngine()
	for count, update := range updates {
		id := smt.UpdateId{Worker: 0, Count: count + 1}
		if err := engine.Update(live, update.Key, update.Value, id); err != nil {
			return err
		}
	}
	if got := live.RootHash(); got != want {
		return fmt.Errorf("live engine diverged from the serial oracle: got %s, want %s", got, want)
	}
	fmt.Println("live engine matches the serial oracle")
	return nil
}
