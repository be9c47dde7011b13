package funds

import (
	"github.com/tendermint/go-amino"

	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
	"github.com/cloudwalk/brlc-multisig/orm"
)

// BucketName is where we store the balances
const BucketName = "balances"

var cdc = amino.NewCodec()

// Balance is the native value held by a single address.
type Balance struct {
	Amount int64
}

var _ orm.Model = (*Balance)(nil)

func (b *Balance) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(b)
}

func (b *Balance) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, b)
}

func (b *Balance) Validate() error {
	if b.Amount < 0 {
		return errors.Wrap(errors.ErrAmount, "negative balance")
	}
	return nil
}

// Bucket manages the balances, keyed by account address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName),
	}
}

// Get loads the balance of the given address. A missing entry is a zero
// balance, not an error.
func (b Bucket) Get(db msig.ReadOnlyKVStore, addr msig.Address) (*Balance, error) {
	var balance Balance
	switch err := b.One(db, addr, &balance); {
	case err == nil:
		return &balance, nil
	case errors.ErrNotFound.Is(err):
		return &Balance{}, nil
	default:
		return nil, err
	}
}

// Save stores the balance under the given address.
func (b Bucket) Save(db msig.KVStore, addr msig.Address, balance *Balance) error {
	return b.Put(db, addr, balance)
}
