package funds

import (
	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
)

// ErrInsufficientFunds is returned when an account cannot cover a
// requested transfer.
var ErrInsufficientFunds = errors.Register(101, "insufficient funds")

// Controller is the functionality other extensions can use to move
// value around without going through a message handler.
type Controller interface {
	// MoveFunds transfers the amount between two accounts.
	MoveFunds(db msig.KVStore, src, dest msig.Address, amount int64) error

	// Balance returns the amount held by the address. Missing accounts
	// hold zero.
	Balance(db msig.ReadOnlyKVStore, addr msig.Address) (int64, error)
}

// BankController implements Controller on top of the balances bucket.
type BankController struct {
	bucket Bucket
}

var _ Controller = BankController{}

// NewController returns a controller bound to the default bucket.
func NewController() BankController {
	return BankController{bucket: NewBucket()}
}

// MoveFunds moves the given amount from src to dest.
// If src doesn't have sufficient funds, it fails.
func (c BankController) MoveFunds(db msig.KVStore, src, dest msig.Address, amount int64) error {
	if amount <= 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive transfer")
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return err
	}
	if sender.Amount < amount {
		return errors.Wrapf(ErrInsufficientFunds, "have %d, need %d", sender.Amount, amount)
	}

	recipient, err := c.bucket.Get(db, dest)
	if err != nil {
		return err
	}

	sender.Amount -= amount
	recipient.Amount += amount

	if err := c.bucket.Save(db, src, sender); err != nil {
		return err
	}
	return c.bucket.Save(db, dest, recipient)
}

// IssueFunds adds the given amount of value to the destination address
// out of thin air. Only genesis initialization may use this.
func (c BankController) IssueFunds(db msig.KVStore, dest msig.Address, amount int64) error {
	if amount <= 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive issue")
	}

	recipient, err := c.bucket.Get(db, dest)
	if err != nil {
		return err
	}
	recipient.Amount += amount
	return c.bucket.Save(db, dest, recipient)
}

// Balance returns the amount held by the address.
func (c BankController) Balance(db msig.ReadOnlyKVStore, addr msig.Address) (int64, error) {
	balance, err := c.bucket.Get(db, addr)
	if err != nil {
		return 0, err
	}
	return balance.Amount, nil
}
