// Package checkpoint stores completed sampler runs in a bolt database.
package checkpoint

import (
	"encoding/json"
	"time"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"

	"bitbucket.org/Davydov/bayesflip/coin"
	"bitbucket.org/Davydov/bayesflip/mcmc"
	"bitbucket.org/Davydov/bayesflip/trace"
)

// log is the global logging variable.
var log = logging.MustGetLogger("checkpoint")

// MAIN is the bucket name for all the runs.
var MAIN = []byte("main")

// RunData stores everything needed to inspect a run later.
type RunData struct {
	// Prior is the prior used for sampling.
	Prior coin.PriorSettings `json:"prior"`
	// Observations is the observed sequence.
	Observations coin.Observations `json:"observations"`
	// TrueP is the success probability used for simulation.
	TrueP float64 `json:"trueP"`
	// Iterations is the chain length.
	Iterations int `json:"iterations"`
	// SD is the proposal standard deviation.
	SD float64 `json:"sd"`
	// Seed is the base random seed.
	Seed int64 `json:"seed"`
	// Chains are the sampled chains.
	Chains []*mcmc.Chain `json:"chains"`
	// Summary is the pooled posterior summary.
	Summary trace.Summary `json:"summary"`
	// Saved is the time the run was stored.
	Saved time.Time `json:"saved"`
	// Final is set when sampling completed.
	Final bool `json:"final"`
}

// CheckpointIO saves and loads runs under a key.
type CheckpointIO struct {
	db  *bolt.DB
	key []byte
}

// NewCheckpointIO creates a new CheckpointIO. A nil database gives a
// store which does nothing.
func NewCheckpointIO(db *bolt.DB, key []byte) (s *CheckpointIO) {
	s = &CheckpointIO{
		db:  db,
		key: key,
	}
	return
}

// Save saves the run to the database.
func (s *CheckpointIO) Save(data *RunData) error {
	data.Saved = time.Now()
	dataB, err := json.Marshal(data)
	if err != nil {
		log.Error("Error serializing run", err)
		return err
	}
	err = SaveData(s.db, s.key, dataB)
	if err != nil {
		log.Error("Error saving run", err)
		return err
	}
	log.Infof("Saved run %q (%d bytes)", s.key, len(dataB))
	return nil
}

// Load returns the stored run or nil if there is none.
func (s *CheckpointIO) Load() (*RunData, error) {
	var data *RunData

	b, err := LoadData(s.db, s.key)

	if err != nil || b == nil {
		return nil, err
	}

	err = json.Unmarshal(b, &data)

	if err != nil {
		return nil, err
	}

	if data == nil {
		return nil, nil
	}

	if data.Final {
		log.Noticef("Found finished run %q (%d chains, %d iterations)", s.key, len(data.Chains), data.Iterations)
	} else {
		log.Noticef("Found unfinished run %q", s.key)
	}

	return data, nil
}

// SaveData saves values in bolt database.
func SaveData(db *bolt.DB, key []byte, data []byte) error {
	if db == nil {
		return nil
	}
	err := db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(MAIN)
		if err != nil {
			return err
		}

		err = b.Put(key, data)
		return err
	})
	return err
}

// LoadData loads data from bolt database.
func LoadData(db *bolt.DB, key []byte) ([]byte, error) {
	var data []byte
	if db == nil {
		return nil, nil
	}
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(MAIN)
		if b == nil {
			return nil
		}

		// values are only valid during the transaction
		if v := b.Get(key); v != nil {
			data = append(make([]byte, 0, len(v)), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// List returns all the stored keys in order.
func List(db *bolt.DB) ([]string, error) {
	var keys []string
	if db == nil {
		return nil, nil
	}
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(MAIN)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

// Delete removes a run.
func Delete(db *bolt.DB, key []byte) error {
	if db == nil {
		return nil
	}
	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(MAIN)
		if b == nil {
			return nil
		}
		return b.Delete(key)
	})
}
