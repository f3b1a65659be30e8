package checkpoint

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"

	"bitbucket.org/Davydov/bayesflip/coin"
	"bitbucket.org/Davydov/bayesflip/mcmc"
	"bitbucket.org/Davydov/bayesflip/trace"
)

func init() {
	logging.SetLevel(logging.WARNING, "checkpoint")
}

func openDB(tst *testing.T) *bolt.DB {
	fn := filepath.Join(tst.TempDir(), "runs.db")
	db, err := bolt.Open(fn, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		tst.Fatal("Error opening database:", err)
	}
	tst.Cleanup(func() { db.Close() })
	return db
}

func TestSaveLoad(tst *testing.T) {
	db := openDB(tst)
	chain := &mcmc.Chain{Index: 0, Seed: 5, Samples: []float64{0.1, 0.2, 0.2}, Accepted: 2}
	data := &RunData{
		Prior:        coin.InformativePrior(),
		Observations: coin.Observations{1, 0, 1},
		TrueP:        0.5,
		Iterations:   3,
		SD:           0.1,
		Seed:         5,
		Chains:       []*mcmc.Chain{chain},
		Summary:      trace.SummarizeChain(chain, 0),
		Final:        true,
	}
	cio := NewCheckpointIO(db, []byte("run1"))
	if err := cio.Save(data); err != nil {
		tst.Fatal(err)
	}
	loaded, err := cio.Load()
	if err != nil {
		tst.Fatal(err)
	}
	if loaded == nil {
		tst.Fatal("Run was not found")
	}
	if loaded.Prior != data.Prior || loaded.Observations.String() != "101" || !loaded.Final {
		tst.Error("Loaded run differs:", loaded)
	}
	if len(loaded.Chains) != 1 || loaded.Chains[0].Accepted != 2 || loaded.Chains[0].Samples[2] != 0.2 {
		tst.Error("Loaded chain differs:", loaded.Chains)
	}
	if loaded.Summary != data.Summary {
		tst.Error("Loaded summary differs:", loaded.Summary, data.Summary)
	}

	missing, err := NewCheckpointIO(db, []byte("run2")).Load()
	if err != nil || missing != nil {
		tst.Error("Expected no run, got", missing, err)
	}
}

func TestList(tst *testing.T) {
	db := openDB(tst)
	keys, err := List(db)
	if err != nil || len(keys) != 0 {
		tst.Error("Expected empty list, got", keys, err)
	}
	for _, k := range []string{"b", "a", "c"} {
		if err := NewCheckpointIO(db, []byte(k)).Save(&RunData{Final: true}); err != nil {
			tst.Fatal(err)
		}
	}
	keys, err = List(db)
	if err != nil {
		tst.Fatal(err)
	}
	if len(keys) != 3 || keys[0] != "a" || keys[2] != "c" {
		tst.Error("Incorrect keys:", keys)
	}
	if err := Delete(db, []byte("b")); err != nil {
		tst.Fatal(err)
	}
	keys, _ = List(db)
	if len(keys) != 2 || keys[1] != "c" {
		tst.Error("Incorrect keys after delete:", keys)
	}
}

func TestNilDB(tst *testing.T) {
	cio := NewCheckpointIO(nil, []byte("x"))
	if err := cio.Save(&RunData{}); err != nil {
		tst.Error(err)
	}
	if data, err := cio.Load(); data != nil || err != nil {
		tst.Error("Nil database should be empty")
	}
	if keys, err := List(nil); keys != nil || err != nil {
		tst.Error("Nil database should have no keys")
	}
}
