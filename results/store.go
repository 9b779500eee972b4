package results

import (
	"encoding/json"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/Rishitha745/MerkleTrees/common"
)

// ErrUnknownRun is reported when a run id is not present in the archive.
const ErrUnknownRun = common.ConstError("unknown run id")

// summaryPrefix divides the key space; all summary records live under it.
const summaryPrefix = "summary/"

// Store archives benchmark summaries in a LevelDB instance, keyed by run id,
// so measurement series survive across benchmark invocations.
type Store struct {
	db *leveldb.DB
}

// OpenStore opens (or creates) the archive at the given directory.
func OpenStore(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open results archive; %w", err)
	}
	return &Store{db: db}, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put archives the summary of one run under the given id, overwriting any
// previous record with the same id.
func (s *Store) Put(runId string, summary Summary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return s.db.Put([]byte(summaryPrefix+runId), data, nil)
}

// Get retrieves the summary archived under the given id.
func (s *Store) Get(runId string) (Summary, error) {
	data, err := s.db.Get([]byte(summaryPrefix+runId), nil)
	if err == leveldb.ErrNotFound {
		return Summary{}, fmt.Errorf("%w: %q", ErrUnknownRun, runId)
	}
	if err != nil {
		return Summary{}, err
	}
	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return Summary{}, fmt.Errorf("corrupted record for run %q; %w", runId, err)
	}
	return summary, nil
}

// List returns the ids of all archived runs in key order.
func (s *Store) List() ([]string, error) {
	iter := s.db.NewIterator(util.BytesPrefix([]byte(summaryPrefix)), nil)
	defer iter.Release()
	var ids []string
	for iter.Next() {
		ids = append(ids, string(iter.Key())[len(summaryPrefix):])
	}
	return ids, iter.Error()
}
