package orm

import (
	"fmt"
	"regexp"

	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	msig.Persistent
	Validate() error
}

// isBucketName limits the characters we allow in a bucket name to ensure
// the prefix separator cannot collide with a name.
var isBucketName = regexp.MustCompile(`^[a-z_]{1,20}$`).MatchString

// ModelBucket stores entities of one type under a common key prefix. All
// operations take the key relative to the bucket, the prefix handling is
// internal.
//
// Unlike a full featured object store this implementation operates
// directly on the KVStore.
type ModelBucket struct {
	name   string
	prefix []byte
}

// NewModelBucket returns a bucket using the given name as the key prefix.
//
// Panics on invalid bucket name as this is a programmer error.
func NewModelBucket(name string) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name: %s", name))
	}
	return ModelBucket{
		name:   name,
		prefix: []byte(name + ":"),
	}
}

// Name returns the name of this bucket.
func (b ModelBucket) Name() string {
	return b.name
}

// DBKey returns the full database key for the given bucket-relative key.
func (b ModelBucket) DBKey(key []byte) []byte {
	return append(append([]byte(nil), b.prefix...), key...)
}

// One queries the database for a single model instance. Lookup is done by
// the primary key. Result is loaded into given destination model.
// This method returns ErrNotFound if the entity does not exist in the
// database.
func (b ModelBucket) One(db msig.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal into %T: %s", dest, err)
	}
	return nil
}

// Has returns true if an entity with given key exists in this bucket.
func (b ModelBucket) Has(db msig.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Put saves given model in the database. The model is validated before
// writing.
func (b ModelBucket) Put(db msig.KVStore, key []byte, m Model) error {
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot marshal %T: %s", m, err)
	}
	if err := db.Set(b.DBKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

// Delete removes an entity with given primary key from the database.
// It returns ErrNotFound if an entity with given key does not exist.
func (b ModelBucket) Delete(db msig.KVStore, key []byte) error {
	dbkey := b.DBKey(key)
	has, err := db.Has(dbkey)
	if err != nil {
		return err
	}
	if !has {
		return errors.Wrap(errors.ErrNotFound, "no entity under this key")
	}
	return db.Delete(dbkey)
}

// Iterator returns an iterator over the given bucket-relative key range.
// Nil start or end iterate from the first, or till the last, key of the
// bucket respectively.
func (b ModelBucket) Iterator(db msig.ReadOnlyKVStore, start, end []byte) (msig.Iterator, error) {
	dbStart, dbEnd := b.dbRange(start, end)
	return db.Iterator(dbStart, dbEnd)
}

// ReverseIterator works as Iterator with the descending key order.
func (b ModelBucket) ReverseIterator(db msig.ReadOnlyKVStore, start, end []byte) (msig.Iterator, error) {
	dbStart, dbEnd := b.dbRange(start, end)
	return db.ReverseIterator(dbStart, dbEnd)
}

func (b ModelBucket) dbRange(start, end []byte) ([]byte, []byte) {
	dbStart := b.DBKey(start)
	var dbEnd []byte
	if end == nil {
		dbEnd = prefixEnd(b.prefix)
	} else {
		dbEnd = b.DBKey(end)
	}
	return dbStart, dbEnd
}

// Register registers this bucket for queries under the given name. It
// supports both direct key lookups and prefix scans.
func (b ModelBucket) Register(name string, qr msig.QueryRouter) {
	if name == "" {
		name = b.name
	}
	root := "/" + name
	qr.Register(root, bucketQuery{b: b})
}

type bucketQuery struct {
	b ModelBucket
}

var _ msig.QueryHandler = bucketQuery{}

// Query returns matching models from this bucket. Returned keys include
// the bucket prefix.
func (q bucketQuery) Query(db msig.ReadOnlyKVStore, mod string, data []byte) ([]msig.Model, error) {
	switch mod {
	case msig.KeyQueryMod:
		key := q.b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []msig.Model{{Key: key, Value: value}}, nil
	case msig.PrefixQueryMod:
		itr, err := q.b.Iterator(db, data, nil)
		if err != nil {
			return nil, err
		}
		return ConsumeIterator(itr)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod: %s", mod)
	}
}

// prefixEnd returns the lowest key that is above all keys with the given
// prefix. Nil means an open range end.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
