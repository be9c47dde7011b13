package orm

import (
	"bytes"
	"testing"

	"github.com/tendermint/go-amino"

	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
	"github.com/cloudwalk/brlc-multisig/store"
)

var testCdc = amino.NewCodec()

// Counter is a minimal model used to exercise the bucket.
type Counter struct {
	Count int64
}

var _ Model = (*Counter)(nil)

func (c *Counter) Marshal() ([]byte, error) {
	return testCdc.MarshalBinaryBare(c)
}

func (c *Counter) Unmarshal(raw []byte) error {
	return testCdc.UnmarshalBinaryBare(raw, c)
}

func (c *Counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrState, "negative count")
	}
	return nil
}

func TestModelBucketPutOne(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	if err := b.Put(db, []byte("c1"), &Counter{Count: 7}); err != nil {
		t.Fatal(err)
	}

	var c Counter
	if err := b.One(db, []byte("c1"), &c); err != nil {
		t.Fatal(err)
	}
	if c.Count != 7 {
		t.Fatalf("expected 7, got %d", c.Count)
	}
}

func TestModelBucketOneMissing(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	var c Counter
	if err := b.One(db, []byte("unknown"), &c); !errors.ErrNotFound.Is(err) {
		t.Fatalf("expected not found, got %+v", err)
	}
}

func TestModelBucketPutValidates(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	err := b.Put(db, []byte("c1"), &Counter{Count: -1})
	if !errors.ErrState.Is(err) {
		t.Fatalf("expected state error, got %+v", err)
	}
}

func TestModelBucketDelete(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	if err := b.Delete(db, []byte("c1")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("expected not found, got %+v", err)
	}

	if err := b.Put(db, []byte("c1"), &Counter{Count: 1}); err != nil {
		t.Fatal(err)
	}
	if err := b.Delete(db, []byte("c1")); err != nil {
		t.Fatal(err)
	}
	if has, err := b.Has(db, []byte("c1")); err != nil || has {
		t.Fatalf("expected entity to be gone: %v (%v)", has, err)
	}
}

func TestModelBucketPrefixIsolation(t *testing.T) {
	db := store.MemStore()
	a := NewModelBucket("aaa")
	b := NewModelBucket("bbb")

	if err := a.Put(db, []byte("k"), &Counter{Count: 1}); err != nil {
		t.Fatal(err)
	}
	if err := b.Put(db, []byte("k"), &Counter{Count: 2}); err != nil {
		t.Fatal(err)
	}

	var c Counter
	if err := a.One(db, []byte("k"), &c); err != nil || c.Count != 1 {
		t.Fatalf("expected 1, got %d (%v)", c.Count, err)
	}
	if err := b.One(db, []byte("k"), &c); err != nil || c.Count != 2 {
		t.Fatalf("expected 2, got %d (%v)", c.Count, err)
	}
}

func TestModelBucketIterator(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	for i := byte(1); i <= 4; i++ {
		if err := b.Put(db, []byte{i}, &Counter{Count: int64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	// noise in another bucket must not be visible
	other := NewModelBucket("noise")
	if err := other.Put(db, []byte{9}, &Counter{Count: 99}); err != nil {
		t.Fatal(err)
	}

	itr, err := b.Iterator(db, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	models, err := ConsumeIterator(itr)
	if err != nil {
		t.Fatal(err)
	}
	if len(models) != 4 {
		t.Fatalf("expected 4 models, got %d", len(models))
	}
	for i, m := range models {
		want := b.DBKey([]byte{byte(i + 1)})
		if !bytes.Equal(m.Key, want) {
			t.Fatalf("model %d: expected key %X, got %X", i, want, m.Key)
		}
	}

	// a bounded range is half-open
	itr, err = b.Iterator(db, []byte{2}, []byte{4})
	if err != nil {
		t.Fatal(err)
	}
	models, err = ConsumeIterator(itr)
	if err != nil {
		t.Fatal(err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(models))
	}
}

func TestBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")
	qr := msig.NewQueryRouter()
	b.Register("counters", qr)

	if err := b.Put(db, []byte("one"), &Counter{Count: 1}); err != nil {
		t.Fatal(err)
	}

	h := qr.Handler("/counters")
	if h == nil {
		t.Fatal("no handler registered")
	}

	models, err := h.Query(db, msig.KeyQueryMod, []byte("one"))
	if err != nil {
		t.Fatal(err)
	}
	if len(models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(models))
	}

	models, err = h.Query(db, msig.KeyQueryMod, []byte("missing"))
	if err != nil {
		t.Fatal(err)
	}
	if len(models) != 0 {
		t.Fatalf("expected no models, got %d", len(models))
	}

	models, err = h.Query(db, msig.PrefixQueryMod, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(models))
	}
}
