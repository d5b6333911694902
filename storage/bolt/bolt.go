// Package bolt is a storage.Store backed by BoltDB.
package bolt

import (
	"context"
	"log"
	"time"

	"github.com/Comcast/anima/core"
	"github.com/Comcast/anima/storage"

	bolt "go.etcd.io/bbolt"
)

// Bucket is the name of the bucket that holds the Timelines.
var Bucket = []byte("timelines")

// Storage is a storage.Store in a BoltDB file.
type Storage struct {
	Debug    bool
	filename string
	db       *bolt.DB
}

// NewStorage makes a Storage for the given file, which Open will
// create if necessary.
func NewStorage(filename string) (*Storage, error) {
	return &Storage{
		filename: filename,
	}, nil
}

func (s *Storage) Open(ctx context.Context) error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}

	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(Bucket)
		return err
	})
	if err != nil {
		db.Close()
		return err
	}
	s.db = db
	return nil
}

func (s *Storage) Close(ctx context.Context) error {
	return s.db.Close()
}

func (s *Storage) logf(format string, args ...interface{}) {
	if s.Debug {
		log.Printf("BoltDB Storage."+format, args...)
	}
}

func (s *Storage) List(ctx context.Context) ([]string, error) {
	acc := make([]string, 0, 8)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(Bucket).Cursor()
		// Keys come back in byte order.
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			acc = append(acc, string(k))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logf("List found %d timelines", len(acc))
	return acc, nil
}

func (s *Storage) Get(ctx context.Context, name string) (*core.Timeline, error) {
	s.logf("Get %s", name)
	var bs []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		// The value is only valid during the transaction.
		if v := tx.Bucket(Bucket).Get([]byte(name)); v != nil {
			bs = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if bs == nil {
		return nil, storage.NotFound
	}
	return storage.Decode(bs)
}

func (s *Storage) Put(ctx context.Context, tl *core.Timeline) error {
	name := tl.Label()
	s.logf("Put %s", name)
	bs, err := storage.Encode(tl)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(Bucket).Put([]byte(name), bs)
	})
}

func (s *Storage) Rem(ctx context.Context, name string) error {
	s.logf("Rem %s", name)
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(Bucket)
		key := []byte(name)
		if b.Get(key) == nil {
			return storage.NotFound
		}
		return b.Delete(key)
	})
}
