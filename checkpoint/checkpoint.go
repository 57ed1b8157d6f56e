// Package checkpoint persists partially computed likelihood sweeps so
// an interrupted tau-grid run can resume where it stopped.
package checkpoint

import (
	"encoding/json"
	"time"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"

	"github.com/SFUStatgen/TJ2022/likelihood"
)

// log is the global logging variable.
var log = logging.MustGetLogger("checkpoint")

// sweeps is the bucket holding all sweep checkpoints.
var sweeps = []byte("sweeps")

// SweepData is the stored state of one sweep: the points computed so
// far, in grid order.
type SweepData struct {
	Points []likelihood.Point `json:"points"`
	Done   bool               `json:"done"`
}

// SweepIO reads and writes sweep checkpoints under a fixed key. The
// key must identify the inputs (pedigree, configuration and grid), so
// a checkpoint is never resumed against different data.
type SweepIO struct {
	db      *bolt.DB
	key     []byte
	last    time.Time
	seconds float64
}

// NewSweepIO creates a SweepIO saving at most once per the given
// number of seconds.
func NewSweepIO(db *bolt.DB, key []byte, seconds float64) *SweepIO {
	return &SweepIO{
		db:      db,
		key:     key,
		seconds: seconds,
	}
}

// Save stores the sweep state.
func (s *SweepIO) Save(data *SweepData) error {
	// even if saving fails, we do not want to run this code too often
	s.SetNow()
	dataB, err := json.Marshal(data)
	if err != nil {
		log.Error("Error serializing checkpoint", err)
		return err
	}
	err = saveData(s.db, s.key, dataB)
	if err != nil {
		log.Error("Error saving checkpoint", err)
	}
	return err
}

// Load returns the stored sweep state, nil when nothing was stored
// under the key.
func (s *SweepIO) Load() (*SweepData, error) {
	b, err := loadData(s.db, s.key)
	if err != nil || b == nil {
		return nil, err
	}

	var data *SweepData
	if err = json.Unmarshal(b, &data); err != nil {
		return nil, err
	}
	if data == nil || len(data.Points) == 0 {
		return nil, nil
	}

	if data.Done {
		log.Noticef("Found finished sweep checkpoint (%d points)", len(data.Points))
	} else {
		log.Noticef("Found unfinished sweep checkpoint (%d points)", len(data.Points))
	}
	return data, nil
}

// Old returns true if the last checkpoint save was too long ago.
func (s *SweepIO) Old() bool {
	return time.Since(s.last).Seconds() > s.seconds
}

// SetNow sets the last checkpoint time to now.
func (s *SweepIO) SetNow() {
	s.last = time.Now()
}

// saveData stores a value in the bolt database.
func saveData(db *bolt.DB, key []byte, data []byte) error {
	if db == nil {
		return nil
	}
	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(sweeps)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

// loadData loads a value from the bolt database.
func loadData(db *bolt.DB, key []byte) ([]byte, error) {
	var data []byte
	if db == nil {
		return nil, nil
	}
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(sweeps)
		if b == nil {
			return nil
		}
		if v := b.Get(key); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
