package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"
)

// ImagesBucket holds one entry per record, keyed by big-endian id so that
// cursor order is id order.
const ImagesBucket = "images"

var _ Store = (*BoltStore)(nil)

// BoltStore keeps records in a bbolt bucket.
type BoltStore struct {
	db     *bolt.DB
	logger zerolog.Logger
}

// NewBoltStore creates or opens the bolt database file at path.
func NewBoltStore(path string, logger zerolog.Logger) (*BoltStore, error) {
	logger.Debug().Str("path", path).Msg("Using bolt image database")

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second}) // 0600: user read/write
	if err != nil {
		return nil, fmt.Errorf("failed to open image database %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(ImagesBucket)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", ImagesBucket, err)
		}
		return nil
	})
	if err != nil {
		db.Close() // Close DB if bucket creation failed
		return nil, err
	}

	return &BoltStore{db: db, logger: logger}, nil
}

// --- Helper Functions ---

func itob(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func decodeRecord(data []byte) (ImageRecord, error) {
	var rec ImageRecord
	err := json.Unmarshal(data, &rec)
	return rec, err
}

// Insert implements Store.
func (s *BoltStore) Insert(ctx context.Context, path string) (ImageRecord, error) {
	if path == "" {
		return ImageRecord{}, ErrEmptyPath
	}
	if err := ctx.Err(); err != nil {
		return ImageRecord{}, err
	}
	var rec ImageRecord
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ImagesBucket))
		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate image id: %w", err)
		}
		rec = ImageRecord{ID: int64(seq), Path: path}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode image %s: %w", path, err)
		}
		return bucket.Put(itob(rec.ID), data)
	})
	if err != nil {
		return ImageRecord{}, fmt.Errorf("failed to insert image %s: %w", path, err)
	}
	s.logger.Debug().Int64("id", rec.ID).Str("path", path).Msg("Inserted image")
	return rec, nil
}

// List implements Store.
func (s *BoltStore) List(ctx context.Context) ([]ImageRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records := []ImageRecord{}
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ImagesBucket))
		return bucket.ForEach(func(k, v []byte) error {
			rec, err := decodeRecord(v)
			if err != nil {
				s.logger.Warn().Err(err).Uint64("key", binary.BigEndian.Uint64(k)).Msg("Skipping undecodable image record")
				return nil // continue iteration
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return records, nil
}

// Get implements Store.
func (s *BoltStore) Get(ctx context.Context, id int64) (ImageRecord, error) {
	if err := ctx.Err(); err != nil {
		return ImageRecord{}, err
	}
	var rec ImageRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(ImagesBucket)).Get(itob(id))
		if data == nil {
			return ErrNotFound
		}
		var err error
		rec, err = decodeRecord(data)
		if err != nil {
			return fmt.Errorf("failed to decode image %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return ImageRecord{}, fmt.Errorf("image %d: %w", id, err)
	}
	return rec, nil
}

// Delete implements Store.
func (s *BoltStore) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		// If the key doesn't exist, Delete does nothing and returns nil.
		return tx.Bucket([]byte(ImagesBucket)).Delete(itob(id))
	})
	if err != nil {
		return fmt.Errorf("failed to delete image %d: %w", id, err)
	}
	return nil
}

// Close closes the database connection.
func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
