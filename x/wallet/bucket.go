package wallet

import (
	"encoding/binary"

	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
	"github.com/cloudwalk/brlc-multisig/orm"
)

const (
	// WalletBucketName is where the wallet configurations are stored.
	WalletBucketName = "wallets"
	// TransactionBucketName is where the transaction ledgers are stored.
	TransactionBucketName = "transactions"
	// OwnerBucketName holds one entry per (wallet, owner) pair.
	OwnerBucketName = "owners"
	// ApprovalBucketName holds one entry per (wallet, transaction, owner)
	// approval.
	ApprovalBucketName = "approvals"

	// SequenceName is the auto-increment ID counter for wallets.
	SequenceName = "id"

	// walletIDLength is the width of a wallet ID, a big endian sequence
	// value.
	walletIDLength = 8
)

// WalletBucket stores the wallet configurations under auto-incremented
// IDs.
type WalletBucket struct {
	orm.ModelBucket
	idSeq orm.Sequence
}

// NewWalletBucket initializes a WalletBucket with the default name.
func NewWalletBucket() WalletBucket {
	return WalletBucket{
		ModelBucket: orm.NewModelBucket(WalletBucketName),
		idSeq:       orm.NewSequence(WalletBucketName, SequenceName),
	}
}

// Create persists the given wallet under the next free ID and returns
// that ID.
func (b WalletBucket) Create(db msig.KVStore, w *Wallet) ([]byte, error) {
	id, err := b.idSeq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "wallet id sequence")
	}
	if err := b.Put(db, id, w); err != nil {
		return nil, err
	}
	return id, nil
}

// GetWallet returns the wallet with the given ID or ErrNotFound.
func (b WalletBucket) GetWallet(db msig.ReadOnlyKVStore, id []byte) (*Wallet, error) {
	if err := validateWalletID(id); err != nil {
		return nil, err
	}
	var w Wallet
	if err := b.One(db, id, &w); err != nil {
		return nil, errors.Wrapf(err, "wallet %x", id)
	}
	return &w, nil
}

// Save persists an updated wallet configuration.
func (b WalletBucket) Save(db msig.KVStore, id []byte, w *Wallet) error {
	if err := validateWalletID(id); err != nil {
		return err
	}
	return b.Put(db, id, w)
}

// WalletCount returns how many wallets were created so far.
func (b WalletBucket) WalletCount(db msig.KVStore) (int64, error) {
	count, _, err := b.idSeq.Latest(db)
	return count, err
}

func validateWalletID(id []byte) error {
	if len(id) != walletIDLength {
		return errors.Wrapf(errors.ErrInput, "wallet id must be %d bytes", walletIDLength)
	}
	return nil
}

// OwnerBucket maintains the membership set of every wallet for O(1)
// lookups. The wallet model keeps the same owners as an ordered list for
// enumeration; both structures are replaced together on reconfiguration.
type OwnerBucket struct {
	orm.ModelBucket
}

// NewOwnerBucket initializes an OwnerBucket with the default name.
func NewOwnerBucket() OwnerBucket {
	return OwnerBucket{ModelBucket: orm.NewModelBucket(OwnerBucketName)}
}

func ownerKey(walletID []byte, owner msig.Address) []byte {
	return append(append([]byte(nil), walletID...), owner...)
}

// Set marks the given address as an owner of the wallet.
func (b OwnerBucket) Set(db msig.KVStore, walletID []byte, owner msig.Address) error {
	return b.Put(db, ownerKey(walletID, owner), &marker{})
}

// Del clears the ownership mark of the given address.
func (b OwnerBucket) Del(db msig.KVStore, walletID []byte, owner msig.Address) error {
	return b.Delete(db, ownerKey(walletID, owner))
}

// IsOwner returns true if the given address is a current owner of the
// wallet.
func (b OwnerBucket) IsOwner(db msig.ReadOnlyKVStore, walletID []byte, owner msig.Address) (bool, error) {
	return b.Has(db, ownerKey(walletID, owner))
}

// TransactionBucket stores the per wallet transaction ledgers. Entries
// are keyed by the wallet ID and the zero based submission index, so the
// ledger of one wallet is a dense, ascending key range.
type TransactionBucket struct {
	orm.ModelBucket
}

// NewTransactionBucket initializes a TransactionBucket with the default
// name.
func NewTransactionBucket() TransactionBucket {
	return TransactionBucket{ModelBucket: orm.NewModelBucket(TransactionBucketName)}
}

// encodeIndex returns the big endian representation of a transaction
// index, used both in ledger keys and in delivery results.
func encodeIndex(index uint64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, index)
	return raw
}

func transactionKey(walletID []byte, index uint64) []byte {
	key := make([]byte, 0, len(walletID)+8)
	key = append(key, walletID...)
	return append(key, encodeIndex(index)...)
}

// GetTransaction returns the transaction with the given index or
// ErrNotFound.
func (b TransactionBucket) GetTransaction(db msig.ReadOnlyKVStore, walletID []byte, index uint64) (*Transaction, error) {
	var t Transaction
	if err := b.One(db, transactionKey(walletID, index), &t); err != nil {
		return nil, errors.Wrapf(err, "transaction %d", index)
	}
	return &t, nil
}

// Save persists a transaction under the given index.
func (b TransactionBucket) Save(db msig.KVStore, walletID []byte, index uint64, t *Transaction) error {
	return b.Put(db, transactionKey(walletID, index), t)
}

// ListTransactions returns up to limit transactions of one wallet in
// ascending index order, starting at the given index. An out of range
// start or a zero limit produce an empty result, never an error, so that
// paginating clients do not have to know the ledger length upfront.
func (b TransactionBucket) ListTransactions(db msig.ReadOnlyKVStore, walletID []byte, start, limit uint64) ([]*Transaction, error) {
	if limit == 0 {
		return nil, nil
	}
	if err := validateWalletID(walletID); err != nil {
		return nil, err
	}
	from := transactionKey(walletID, start)
	to := orm.EncodeSequence(orm.DecodeSequence(walletID) + 1)
	itr, err := b.Iterator(db, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "transaction iterator")
	}
	defer itr.Close()

	var out []*Transaction
	for itr.Valid() && uint64(len(out)) < limit {
		var t Transaction
		if err := t.Unmarshal(itr.Value()); err != nil {
			return nil, errors.Wrap(errors.ErrModel, "cannot unmarshal transaction")
		}
		out = append(out, &t)
		if err := itr.Next(); err != nil {
			return nil, errors.Wrap(err, "transaction iterator")
		}
	}
	return out, nil
}

// ApprovalBucket tracks which owner approved which transaction. The
// cached approval count on the transaction record is kept in sync by the
// handlers.
type ApprovalBucket struct {
	orm.ModelBucket
}

// NewApprovalBucket initializes an ApprovalBucket with the default name.
func NewApprovalBucket() ApprovalBucket {
	return ApprovalBucket{ModelBucket: orm.NewModelBucket(ApprovalBucketName)}
}

func approvalKey(walletID []byte, index uint64, owner msig.Address) []byte {
	return append(transactionKey(walletID, index), owner...)
}

// Grant records an approval of the given owner.
func (b ApprovalBucket) Grant(db msig.KVStore, walletID []byte, index uint64, owner msig.Address) error {
	return b.Put(db, approvalKey(walletID, index, owner), &marker{})
}

// Withdraw removes an approval of the given owner.
func (b ApprovalBucket) Withdraw(db msig.KVStore, walletID []byte, index uint64, owner msig.Address) error {
	return b.Delete(db, approvalKey(walletID, index, owner))
}

// HasApproved returns true if the given address holds an approval for
// the transaction. Approvals are not withdrawn when an owner leaves the
// wallet.
func (b ApprovalBucket) HasApproved(db msig.ReadOnlyKVStore, walletID []byte, index uint64, owner msig.Address) (bool, error) {
	return b.Has(db, approvalKey(walletID, index, owner))
}
