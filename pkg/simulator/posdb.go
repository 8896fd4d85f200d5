package simulator

import (
	"encoding/binary"
	"math"

	"github.com/dgraph-io/badger/v4"
)

// PosDB persists last-known train positions so a restarted simulator
// resumes the fleet where it left off instead of teleporting every train
// back to the seed area.
type PosDB struct {
	db *badger.DB
}

func OpenPosDB(path string) (*PosDB, error) {
	opts := badger.DefaultOptions(path)
	// Decrease logging verbosity
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &PosDB{db: db}, nil
}

func (p *PosDB) Close() error {
	return p.db.Close()
}

// SaveAll writes the whole fleet in one batch.
func (p *PosDB) SaveAll(trains []Train) error {
	wb := p.db.NewWriteBatch()
	defer wb.Cancel()

	for _, t := range trains {
		val := make([]byte, 16)
		binary.BigEndian.PutUint64(val[0:8], math.Float64bits(t.Lat))
		binary.BigEndian.PutUint64(val[8:16], math.Float64bits(t.Lng))
		if err := wb.Set([]byte(t.ID), val); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// Load returns the stored position for a train id, if any.
func (p *PosDB) Load(id string) (lat, lng float64, ok bool, err error) {
	err = p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 16 {
				return nil
			}
			lat = math.Float64frombits(binary.BigEndian.Uint64(val[0:8]))
			lng = math.Float64frombits(binary.BigEndian.Uint64(val[8:16]))
			ok = true
			return nil
		})
	})
	return lat, lng, ok, err
}
