package wallet

import (
	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

const (
	// maxOwnersAllowed bounds the owner set size. Membership checks and
	// owner set replacement are linear in the owner count.
	maxOwnersAllowed = 100

	// maxPayloadSize bounds the opaque payload carried by a transaction.
	maxPayloadSize = 8 * 1024

	// minExpirationTime is the lowest expiration window a wallet can be
	// configured with. Without a floor a near-zero window would make every
	// transaction dead on arrival and lock the wallet out of its own
	// reconfiguration pipeline.
	minExpirationTime msig.UnixDuration = 60 * 60
)

// WalletCondition returns a condition for a wallet with given ID. The
// address of this condition is the wallet account that holds the funds,
// and the condition itself authorizes the wallet configuration messages.
// It is granted only while a wallet transaction payload is dispatched.
func WalletCondition(id []byte) msig.Condition {
	if len(id) != walletIDLength {
		panic("wallet condition must use a valid wallet id")
	}
	return msig.NewCondition("wallet", "usage", id)
}

// Wallet is the authorization configuration of a single multi-party
// account. Owners and quorum decide who can act and how many approvals a
// transaction needs. Cooldown and expiration apply to transactions
// submitted from now on; every transaction freezes its own deadlines at
// submission time.
type Wallet struct {
	Owners           []msig.Address
	Quorum           uint32
	CooldownTime     msig.UnixDuration
	ExpirationTime   msig.UnixDuration
	TransactionCount uint64
	// ApprovedUpgrade holds the implementation identifier that the owners
	// authorized through the wallet pipeline. Empty means no upgrade is
	// authorized. The upgrade machinery itself lives outside this package.
	ApprovedUpgrade []byte
}

func (w *Wallet) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, w)
}

func (w *Wallet) Validate() error {
	if err := validateOwners(errors.ErrModel, w.Owners, w.Quorum); err != nil {
		return err
	}
	if err := w.CooldownTime.Validate(); err != nil {
		return errors.Wrap(err, "cooldown time")
	}
	if w.ExpirationTime < minExpirationTime {
		return errors.Wrapf(errors.ErrModel,
			"expiration time %s below the %s minimum",
			w.ExpirationTime, minExpirationTime)
	}
	return nil
}

// IsOwner returns true if the given address belongs to the owner set.
// This is a check against the enumerable list; the owners bucket offers
// the same answer as a direct lookup.
func (w *Wallet) IsOwner(addr msig.Address) bool {
	for _, o := range w.Owners {
		if o.Equals(addr) {
			return true
		}
	}
	return false
}

// validateOwners checks an owner set and quorum pair. Violations are
// wrapped with the given base error so that model and message validation
// can report their own error class.
func validateOwners(base *errors.Error, owners []msig.Address, quorum uint32) error {
	switch n := len(owners); {
	case n == 0:
		return errors.Wrap(base, "no owners")
	case n > maxOwnersAllowed:
		return errors.Wrap(base, "too many owners")
	}
	seen := make(map[string]struct{}, len(owners))
	for _, o := range owners {
		if err := o.Validate(); err != nil {
			return errors.Wrap(err, "owner address")
		}
		if _, ok := seen[string(o)]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "owner %s", o)
		}
		seen[string(o)] = struct{}{}
	}
	if quorum < 1 || int(quorum) > len(owners) {
		return errors.Wrapf(base,
			"quorum %d must be between 1 and %d", quorum, len(owners))
	}
	return nil
}

// Transaction is a single proposed operation of a wallet, identified by
// the wallet ID and its zero based submission index. Records are append
// only, never deleted, and remain readable after execution or expiration.
type Transaction struct {
	Destination msig.Address
	Amount      int64
	Payload     []byte
	Executed    bool
	// Deadlines are absolute, computed once at submission from the wallet
	// configuration active at that moment. Later reconfiguration does not
	// move them.
	CooldownDeadline   msig.UnixTime
	ExpirationDeadline msig.UnixTime
	// ApprovalCount caches the number of approval entries for this
	// transaction. It is maintained incrementally and counts approvals by
	// owners that were later removed from the wallet as well.
	ApprovalCount uint32
}

func (t *Transaction) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(t)
}

func (t *Transaction) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, t)
}

func (t *Transaction) Validate() error {
	if err := t.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if t.Amount < 0 {
		return errors.Wrap(errors.ErrAmount, "negative amount")
	}
	if len(t.Payload) > maxPayloadSize {
		return errors.Wrap(errors.ErrModel, "payload too big")
	}
	if err := t.CooldownDeadline.Validate(); err != nil {
		return errors.Wrap(err, "cooldown deadline")
	}
	if err := t.ExpirationDeadline.Validate(); err != nil {
		return errors.Wrap(err, "expiration deadline")
	}
	if t.ExpirationDeadline < t.CooldownDeadline {
		return errors.Wrap(errors.ErrModel,
			"expiration deadline before cooldown deadline")
	}
	return nil
}

// marker is the value stored in relation buckets, where the key carries
// all the information and only the presence of an entry matters.
type marker struct{}

func (marker) Marshal() ([]byte, error) {
	return []byte{1}, nil
}

func (*marker) Unmarshal([]byte) error {
	return nil
}

func (marker) Validate() error {
	return nil
}
