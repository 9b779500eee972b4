package smt

import (
	"fmt"
	"sync"
	"time"

	"github.com/Rishitha745/MerkleTrees/common"
)

//go:generate mockgen -source dispatcher.go -destination engine_mocks.go -package smt

// Updater applies a single keyed update on behalf of a dispatcher worker.
// It is implemented by the LiveEngine.
type Updater interface {

	// Update writes the value's hash into the leaf at the given key and
	// propagates the change towards the root. The id carries the calling
	// worker's index and a count fresh for that worker.
	Update(tree *Tree, key, value string, id UpdateId) error
}

// OpKind distinguishes the operations a dispatcher accepts.
type OpKind byte

const (
	OpUpdate OpKind = iota
	OpReadRoot
	OpReadLeaf
)

// Operation is a single request submitted to a dispatcher. Key and Value are
// only meaningful for the kinds using them. Arrival is the request's arrival
// time relative to the start of the run; the dispatcher measures each
// operation's response time against it.
type Operation struct {
	Kind    OpKind
	Key     string
	Value   string
	Arrival time.Duration
}

// Dispatcher feeds operations to a fixed pool of workers over a shared
// queue. Each update is delivered exactly once to exactly one worker, which
// executes it through the Updater under its own worker index and a per-worker
// strictly increasing update count.
type Dispatcher struct {
	tree    *Tree
	updater Updater
	start   time.Time

	mutex  sync.Mutex
	cond   *sync.Cond
	queue  []Operation
	closed bool
	err    error

	workers   sync.WaitGroup
	responses [][]time.Duration
}

// NewDispatcher starts numWorkers workers consuming submitted operations.
// The dispatcher must be closed to stop them again.
func NewDispatcher(tree *Tree, updater Updater, numWorkers int) (*Dispatcher, error) {
	if numWorkers <= 0 || numWorkers > MaxWorkers {
		return nil, fmt.Errorf("%w: number of workers must be in [1;%d], got %d", common.ErrInvalidArgument, MaxWorkers, numWorkers)
	}
	d := &Dispatcher{
		tree:      tree,
		updater:   updater,
		start:     time.Now(),
		responses: make([][]time.Duration, numWorkers),
	}
	d.cond = sync.NewCond(&d.mutex)
	d.workers.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go d.worker(i)
	}
	return d, nil
}

// Submit enqueues one operation. It fails once the dispatcher is closed.
func (d *Dispatcher) Submit(op Operation) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.closed {
		return fmt.Errorf("%w: dispatcher is closed", common.ErrInvalidArgument)
	}
	d.queue = append(d.queue, op)
	d.cond.Signal()
	return nil
}

// Close lets the workers drain the queue, stops them, and waits for them to
// finish. It returns the first error any worker encountered.
func (d *Dispatcher) Close() error {
	d.mutex.Lock()
	alreadyClosed := d.closed
	d.closed = true
	d.mutex.Unlock()
	if !alreadyClosed {
		d.cond.Broadcast()
		d.workers.Wait()
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.err
}

// ResponseTimes returns, per worker, the response time of every operation
// that worker completed. Only valid after Close.
func (d *Dispatcher) ResponseTimes() [][]time.Duration {
	return d.responses
}

func (d *Dispatcher) worker(index int) {
	defer d.workers.Done()
	count := 0
	for {
		d.mutex.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.queue) == 0 {
			d.mutex.Unlock()
			return
		}
		op := d.queue[0]
		d.queue = d.queue[1:]
		d.mutex.Unlock()

		var err error
		switch op.Kind {
		case OpUpdate:
			count++
			err = d.updater.Update(d.tree, op.Key, op.Value, UpdateId{Worker: index, Count: count})
		case OpReadRoot:
			d.tree.RootHash()
		case OpReadLeaf:
			_, err = d.tree.LeafHash(op.Key)
		default:
			err = fmt.Errorf("%w: unknown operation kind %d", common.ErrInvalidArgument, op.Kind)
		}

		// Each worker appends to its own slice only; no lock needed.
		d.responses[index] = append(d.responses[index], time.Since(d.start)-op.Arrival)

		if err != nil {
			d.mutex.Lock()
			if d.err == nil {
				d.err = err
			}
			d.mutex.Unlock()
		}
	}
}
