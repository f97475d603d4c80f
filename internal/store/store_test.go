package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"fygallery/internal/config"
)

// engines returns a constructor per storage engine so that every contract
// test runs against both.
func engines() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"sqlite": func(t *testing.T) Store {
			t.Helper()
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "images.db"), zerolog.Nop())
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
		"sqlite-memory": func(t *testing.T) Store {
			t.Helper()
			s, err := NewSQLiteStore(":memory:", zerolog.Nop())
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
		"bolt": func(t *testing.T) Store {
			t.Helper()
			s, err := NewBoltStore(filepath.Join(t.TempDir(), "images.bolt"), zerolog.Nop())
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func forEachEngine(t *testing.T, fn func(t *testing.T, s Store)) {
	for name, open := range engines() {
		t.Run(name, func(t *testing.T) {
			fn(t, open(t))
		})
	}
}

func TestInsertListDeleteScenario(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		a, err := s.Insert(ctx, "a.png")
		require.NoError(t, err)
		b, err := s.Insert(ctx, "b.png")
		require.NoError(t, err)
		assert.Equal(t, ImageRecord{ID: 1, Path: "a.png"}, a)
		assert.Equal(t, ImageRecord{ID: 2, Path: "b.png"}, b)

		records, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []ImageRecord{{1, "a.png"}, {2, "b.png"}}, records)

		require.NoError(t, s.Delete(ctx, 1))

		records, err = s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []ImageRecord{{2, "b.png"}}, records)
	})
}

func TestListEmpty(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s Store) {
		records, err := s.List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})
}

func TestDuplicatePathsAreKept(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		for i := 0; i < 3; i++ {
			_, err := s.Insert(ctx, "/photos/same.jpg")
			require.NoError(t, err)
		}
		records, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, int64(1), records[0].ID)
		assert.Equal(t, int64(3), records[2].ID)
	})
}

func TestInsertDoesNotValidateExistence(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s Store) {
		rec, err := s.Insert(context.Background(), "/definitely/not/here.bmp")
		require.NoError(t, err)
		assert.Equal(t, "/definitely/not/here.bmp", rec.Path)
	})
}

func TestInsertEmptyPath(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s Store) {
		_, err := s.Insert(context.Background(), "")
		assert.ErrorIs(t, err, ErrEmptyPath)
	})
}

func TestDeleteMissingIDIsNoop(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		_, err := s.Insert(ctx, "a.png")
		require.NoError(t, err)

		before, err := s.List(ctx)
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, 42))

		after, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestGet(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		inserted, err := s.Insert(ctx, "c.jpeg")
		require.NoError(t, err)

		got, err := s.Get(ctx, inserted.ID)
		require.NoError(t, err)
		assert.Equal(t, inserted, got)

		_, err = s.Get(ctx, inserted.ID+100)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestIDsAreNotReused(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		_, err := s.Insert(ctx, "a.png")
		require.NoError(t, err)
		b, err := s.Insert(ctx, "b.png")
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, b.ID))

		c, err := s.Insert(ctx, "c.png")
		require.NoError(t, err)
		assert.Greater(t, c.ID, b.ID)
	})
}

// TestSurvivorsAfterMixedOperations checks that after an arbitrary mix of
// inserts and deletes the listing is exactly the surviving records in id order.
func TestSurvivorsAfterMixedOperations(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		expected := map[int64]string{}

		for i := 0; i < 20; i++ {
			path := filepath.Join("/img", string(rune('a'+i))+".png")
			rec, err := s.Insert(ctx, path)
			require.NoError(t, err)
			expected[rec.ID] = path
			if i%3 == 2 {
				victim := rec.ID - 1
				require.NoError(t, s.Delete(ctx, victim))
				delete(expected, victim)
			}
		}

		records, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, len(expected))
		for i, rec := range records {
			assert.Equal(t, expected[rec.ID], rec.Path)
			if i > 0 {
				assert.Less(t, records[i-1].ID, rec.ID, "records must be in id order")
			}
		}
	})
}

func TestRecordsPersistAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, driver := range []string{config.DriverSQLite, config.DriverBolt} {
		t.Run(driver, func(t *testing.T) {
			cfg := config.StoreConfig{Driver: driver, Path: filepath.Join(dir, "gallery-"+driver)}

			s, err := Open(cfg, zerolog.Nop())
			require.NoError(t, err)
			_, err = s.Insert(ctx, "kept.png")
			require.NoError(t, err)
			require.NoError(t, s.Close())

			s, err = Open(cfg, zerolog.Nop())
			require.NoError(t, err)
			defer s.Close()

			records, err := s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []ImageRecord{{1, "kept.png"}}, records)
		})
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(config.StoreConfig{Driver: "mysql", Path: filepath.Join(t.TempDir(), "x")}, zerolog.Nop())
	assert.Error(t, err)
}

func TestResolvePathExplicit(t *testing.T) {
	path, err := ResolvePath(config.StoreConfig{Driver: config.DriverBolt, Path: "/tmp/x.bolt"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.bolt", path)
}

func TestBoltRecordsLiveInImagesBucket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "images.bolt")
	s, err := NewBoltStore(path, zerolog.Nop())
	require.NoError(t, err)
	rec, err := s.Insert(context.Background(), "a.png")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	db, err := bolt.Open(path, 0600, nil)
	require.NoError(t, err)
	defer db.Close()
	err = db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte("images"))
		require.NotNil(t, bucket)
		data := bucket.Get(itob(rec.ID))
		require.NotNil(t, data)
		got, err := decodeRecord(data)
		require.NoError(t, err)
		assert.Equal(t, rec, got)
		return nil
	})
	require.NoError(t, err)
}
