package iavl

import (
	"bytes"
	"testing"
)

func TestCommitStoreRoundTrip(t *testing.T) {
	s := MockCommitStore()

	cache := s.CacheWrap()
	if err := cache.Set([]byte("hello"), []byte("world")); err != nil {
		t.Fatal(err)
	}
	if err := cache.Write(); err != nil {
		t.Fatal(err)
	}

	// not yet committed, so not visible at the committed state
	if val, err := s.Get([]byte("hello")); err != nil || val != nil {
		t.Fatalf("uncommitted write visible: %X (%v)", val, err)
	}

	id, err := s.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if id.Version != 1 {
		t.Fatalf("expected version 1, got %d", id.Version)
	}
	if len(id.Hash) == 0 {
		t.Fatal("commit must produce a hash")
	}

	if val, err := s.Get([]byte("hello")); err != nil || !bytes.Equal(val, []byte("world")) {
		t.Fatalf("expected world, got %X (%v)", val, err)
	}
}

func TestCommitStoreDiscardedCacheDoesNotCommit(t *testing.T) {
	s := MockCommitStore()

	cache := s.CacheWrap()
	if err := cache.Set([]byte("gone"), []byte("data")); err != nil {
		t.Fatal(err)
	}
	cache.Discard()

	if _, err := s.Commit(); err != nil {
		t.Fatal(err)
	}
	if val, err := s.Get([]byte("gone")); err != nil || val != nil {
		t.Fatalf("discarded write committed: %X (%v)", val, err)
	}
}

func TestCommitStoreVersionsAdvance(t *testing.T) {
	s := MockCommitStore()

	for i := 1; i <= 3; i++ {
		cache := s.CacheWrap()
		if err := cache.Set([]byte{byte(i)}, []byte{byte(i)}); err != nil {
			t.Fatal(err)
		}
		if err := cache.Write(); err != nil {
			t.Fatal(err)
		}
		id, err := s.Commit()
		if err != nil {
			t.Fatal(err)
		}
		if id.Version != int64(i) {
			t.Fatalf("expected version %d, got %d", i, id.Version)
		}
	}

	id, err := s.LatestVersion()
	if err != nil {
		t.Fatal(err)
	}
	if id.Version != 3 {
		t.Fatalf("expected latest version 3, got %d", id.Version)
	}
}
