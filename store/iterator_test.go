package store

import (
	"bytes"
	"testing"
)

// collect drains an iterator into a slice of models.
func collect(t *testing.T, itr Iterator, err error) []Model {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
	defer itr.Close()

	var out []Model
	for itr.Valid() {
		out = append(out, Model{
			Key:   append([]byte(nil), itr.Key()...),
			Value: append([]byte(nil), itr.Value()...),
		})
		if err := itr.Next(); err != nil {
			t.Fatal(err)
		}
	}
	return out
}

func assertModels(t *testing.T, want, got []Model) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("expected %d models, got %d", len(want), len(got))
	}
	for i := range want {
		if !bytes.Equal(want[i].Key, got[i].Key) {
			t.Errorf("model %d: expected key %X, got %X", i, want[i].Key, got[i].Key)
		}
		if !bytes.Equal(want[i].Value, got[i].Value) {
			t.Errorf("model %d: expected value %X, got %X", i, want[i].Value, got[i].Value)
		}
	}
}

func TestCacheIteratorMergesWrites(t *testing.T) {
	base := MemStore()
	if err := base.Set([]byte("b"), []byte("2")); err != nil {
		t.Fatal(err)
	}
	if err := base.Set([]byte("d"), []byte("4")); err != nil {
		t.Fatal(err)
	}

	cache := base.CacheWrap()
	if err := cache.Set([]byte("a"), []byte("1")); err != nil {
		t.Fatal(err)
	}
	if err := cache.Set([]byte("c"), []byte("3")); err != nil {
		t.Fatal(err)
	}

	itr, err := cache.Iterator(nil, nil)
	got := collect(t, itr, err)
	want := []Model{
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("b"), Value: []byte("2")},
		{Key: []byte("c"), Value: []byte("3")},
		{Key: []byte("d"), Value: []byte("4")},
	}
	assertModels(t, want, got)
}

func TestCacheIteratorShadowsOverwrites(t *testing.T) {
	base := MemStore()
	if err := base.Set([]byte("a"), []byte("old")); err != nil {
		t.Fatal(err)
	}

	cache := base.CacheWrap()
	if err := cache.Set([]byte("a"), []byte("new")); err != nil {
		t.Fatal(err)
	}

	itr, err := cache.Iterator(nil, nil)
	got := collect(t, itr, err)
	want := []Model{
		{Key: []byte("a"), Value: []byte("new")},
	}
	assertModels(t, want, got)
}

func TestCacheIteratorSkipsDeleted(t *testing.T) {
	base := MemStore()
	for _, m := range []Model{
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("b"), Value: []byte("2")},
		{Key: []byte("c"), Value: []byte("3")},
	} {
		if err := base.Set(m.Key, m.Value); err != nil {
			t.Fatal(err)
		}
	}

	cache := base.CacheWrap()
	if err := cache.Delete([]byte("a")); err != nil {
		t.Fatal(err)
	}
	if err := cache.Delete([]byte("c")); err != nil {
		t.Fatal(err)
	}

	itr, err := cache.Iterator(nil, nil)
	got := collect(t, itr, err)
	want := []Model{
		{Key: []byte("b"), Value: []byte("2")},
	}
	assertModels(t, want, got)
}

func TestCacheIteratorRange(t *testing.T) {
	base := MemStore()
	cache := base.CacheWrap()
	for _, m := range []Model{
		{Key: []byte{1}, Value: []byte("1")},
		{Key: []byte{2}, Value: []byte("2")},
		{Key: []byte{3}, Value: []byte("3")},
		{Key: []byte{4}, Value: []byte("4")},
	} {
		if err := cache.Set(m.Key, m.Value); err != nil {
			t.Fatal(err)
		}
	}

	// range [2, 4) is half-open
	itr, err := cache.Iterator([]byte{2}, []byte{4})
	got := collect(t, itr, err)
	want := []Model{
		{Key: []byte{2}, Value: []byte("2")},
		{Key: []byte{3}, Value: []byte("3")},
	}
	assertModels(t, want, got)
}

func TestCacheReverseIterator(t *testing.T) {
	base := MemStore()
	if err := base.Set([]byte("a"), []byte("1")); err != nil {
		t.Fatal(err)
	}

	cache := base.CacheWrap()
	if err := cache.Set([]byte("b"), []byte("2")); err != nil {
		t.Fatal(err)
	}
	if err := cache.Set([]byte("c"), []byte("3")); err != nil {
		t.Fatal(err)
	}

	itr, err := cache.ReverseIterator(nil, nil)
	got := collect(t, itr, err)
	want := []Model{
		{Key: []byte("c"), Value: []byte("3")},
		{Key: []byte("b"), Value: []byte("2")},
		{Key: []byte("a"), Value: []byte("1")},
	}
	assertModels(t, want, got)
}
