package wallet

import (
	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
	"github.com/cloudwalk/brlc-multisig/x"
	"github.com/cloudwalk/brlc-multisig/x/funds"
)

// controller implements the transaction lifecycle. Handlers do the
// message plumbing and delegate all state transitions here so that the
// fused operations (submit+approve, approve+execute) compose the exact
// same steps as their standalone forms.
type controller struct {
	auth      x.Authenticator
	wallets   WalletBucket
	owners    OwnerBucket
	txns      TransactionBucket
	approvals ApprovalBucket
	funds     funds.Controller
	decode    PayloadDecoder
	dispatch  Executor
}

func newController(auth x.Authenticator, control funds.Controller, decoder PayloadDecoder, executor Executor) controller {
	return controller{
		auth:      auth,
		wallets:   NewWalletBucket(),
		owners:    NewOwnerBucket(),
		txns:      NewTransactionBucket(),
		approvals: NewApprovalBucket(),
		funds:     control,
		decode:    decoder,
		dispatch:  executor,
	}
}

// blockNow returns the current block time with seconds precision.
func blockNow(ctx msig.Context) (msig.UnixTime, error) {
	now, ok := msig.BlockTime(ctx)
	if !ok {
		return 0, errors.Wrap(errors.ErrState, "block time not present in the context")
	}
	return msig.AsUnixTime(now), nil
}

// ownerCaller returns the address of the first message signer that is a
// current owner of the wallet, or ErrUnauthorized if there is none.
func (c controller) ownerCaller(ctx msig.Context, db msig.KVStore, walletID []byte) (msig.Address, error) {
	for _, cond := range c.auth.GetConditions(ctx) {
		addr := cond.Address()
		ok, err := c.owners.IsOwner(db, walletID, addr)
		if err != nil {
			return nil, errors.Wrap(err, "owner lookup")
		}
		if ok {
			return addr, nil
		}
	}
	return nil, errors.Wrap(errors.ErrUnauthorized, "sender is not a wallet owner")
}

// walletAuth ensures the wallet condition is present. Only the payload
// dispatch of an executed transaction grants it, so this is the self call
// gate of the configuration messages.
func (c controller) walletAuth(ctx msig.Context, walletID []byte) error {
	if err := validateWalletID(walletID); err != nil {
		return err
	}
	if !c.auth.HasAddress(ctx, WalletCondition(walletID).Address()) {
		return errors.Wrap(errors.ErrUnauthorized, "reachable only by the wallet itself")
	}
	return nil
}

// create persists a new wallet and its owner set, returning the wallet
// ID.
func (c controller) create(db msig.KVStore, w *Wallet) ([]byte, error) {
	id, err := c.wallets.Create(db, w)
	if err != nil {
		return nil, err
	}
	for _, o := range w.Owners {
		if err := c.owners.Set(db, id, o); err != nil {
			return nil, errors.Wrap(err, "owner set")
		}
	}
	return id, nil
}

// submit appends a new transaction to the wallet ledger and returns its
// index. Deadlines are frozen copies computed from the configuration
// active right now; later reconfiguration does not move them.
func (c controller) submit(ctx msig.Context, db msig.KVStore, walletID []byte, dest msig.Address, amount int64, payload []byte) (uint64, error) {
	w, err := c.wallets.GetWallet(db, walletID)
	if err != nil {
		return 0, err
	}
	now, err := blockNow(ctx)
	if err != nil {
		return 0, err
	}
	cooldown := now.Add(w.CooldownTime.Duration())
	txn := &Transaction{
		Destination:        dest,
		Amount:             amount,
		Payload:            payload,
		CooldownDeadline:   cooldown,
		ExpirationDeadline: cooldown.Add(w.ExpirationTime.Duration()),
	}
	index := w.TransactionCount
	w.TransactionCount++
	if err := c.wallets.Save(db, walletID, w); err != nil {
		return 0, err
	}
	if err := c.txns.Save(db, walletID, index, txn); err != nil {
		return 0, err
	}
	return index, nil
}

// pending loads a transaction that can still change state: it must exist,
// must not be executed and must not be past its expiration deadline.
func (c controller) pending(ctx msig.Context, db msig.KVStore, walletID []byte, index uint64) (*Transaction, error) {
	txn, err := c.txns.GetTransaction(db, walletID, index)
	if err != nil {
		return nil, err
	}
	if txn.Executed {
		return nil, errors.Wrapf(ErrAlreadyExecuted, "transaction %d", index)
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, err
	}
	if now > txn.ExpirationDeadline {
		return nil, errors.Wrapf(errors.ErrExpired,
			"transaction %d expired at %s", index, txn.ExpirationDeadline)
	}
	return txn, nil
}

// approve records an approval of the given owner and bumps the cached
// count.
func (c controller) approve(ctx msig.Context, db msig.KVStore, walletID []byte, index uint64, owner msig.Address) error {
	txn, err := c.pending(ctx, db, walletID, index)
	if err != nil {
		return err
	}
	approved, err := c.approvals.HasApproved(db, walletID, index, owner)
	if err != nil {
		return errors.Wrap(err, "approval lookup")
	}
	if approved {
		return errors.Wrapf(ErrAlreadyApproved, "transaction %d", index)
	}
	if err := c.approvals.Grant(db, walletID, index, owner); err != nil {
		return errors.Wrap(err, "grant approval")
	}
	txn.ApprovalCount++
	return c.txns.Save(db, walletID, index, txn)
}

// revoke withdraws an approval of the given owner and lowers the cached
// count. It is the exact inverse of approve.
func (c controller) revoke(ctx msig.Context, db msig.KVStore, walletID []byte, index uint64, owner msig.Address) error {
	txn, err := c.pending(ctx, db, walletID, index)
	if err != nil {
		return err
	}
	approved, err := c.approvals.HasApproved(db, walletID, index, owner)
	if err != nil {
		return errors.Wrap(err, "approval lookup")
	}
	if !approved {
		return errors.Wrapf(ErrNotApproved, "transaction %d", index)
	}
	if err := c.approvals.Withdraw(db, walletID, index, owner); err != nil {
		return errors.Wrap(err, "withdraw approval")
	}
	txn.ApprovalCount--
	return c.txns.Save(db, walletID, index, txn)
}

// execute performs the transaction once the quorum is met and the
// execution window is open.
//
// All effects run inside a cache wrap with the executed flag written
// first, so a payload that reenters the wallet observes the transaction
// as executed and is rejected. A failing transfer or payload dispatch
// discards the cache: nothing is persisted, the transaction stays
// executable and may be retried until it expires.
func (c controller) execute(ctx msig.Context, db msig.KVStore, walletID []byte, index uint64) (*msig.DeliverResult, error) {
	w, err := c.wallets.GetWallet(db, walletID)
	if err != nil {
		return nil, err
	}
	txn, err := c.pending(ctx, db, walletID, index)
	if err != nil {
		return nil, err
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, err
	}
	if now < txn.CooldownDeadline {
		return nil, errors.Wrapf(ErrCooldown,
			"transaction %d locked until %s", index, txn.CooldownDeadline)
	}
	if txn.ApprovalCount < w.Quorum {
		return nil, errors.Wrapf(ErrInsufficientApprovals,
			"have %d, need %d", txn.ApprovalCount, w.Quorum)
	}

	cstore, ok := db.(msig.CacheableKVStore)
	if !ok {
		return nil, errors.Wrap(errors.ErrType, "store cannot be cache wrapped")
	}
	cache := cstore.CacheWrap()

	txn.Executed = true
	if err := c.txns.Save(cache, walletID, index, txn); err != nil {
		cache.Discard()
		return nil, err
	}

	res := &msig.DeliverResult{}
	if txn.Amount > 0 {
		source := WalletCondition(walletID).Address()
		if err := c.funds.MoveFunds(cache, source, txn.Destination, txn.Amount); err != nil {
			cache.Discard()
			return nil, errors.Wrap(err, "transfer")
		}
	}
	if len(txn.Payload) != 0 {
		msg, err := c.decode(txn.Payload)
		if err != nil {
			cache.Discard()
			return nil, errors.Wrap(err, "payload")
		}
		if err := msg.Validate(); err != nil {
			cache.Discard()
			return nil, errors.Wrap(err, "payload")
		}
		sub, err := c.dispatch(withWallet(ctx, walletID), cache, msg)
		if err != nil {
			cache.Discard()
			return nil, errors.Wrap(err, "payload dispatch")
		}
		res.Tags = append(res.Tags, sub.Tags...)
		res.GasUsed += sub.GasUsed
	}

	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write cache")
	}
	return res, nil
}

// configureOwners atomically replaces the owner set and quorum. Both the
// membership bucket and the enumerable list on the wallet model are
// rebuilt. Approvals of pending transactions are deliberately left
// untouched, so approvals cast by removed owners keep counting toward the
// quorum.
func (c controller) configureOwners(db msig.KVStore, walletID []byte, owners []msig.Address, quorum uint32) error {
	w, err := c.wallets.GetWallet(db, walletID)
	if err != nil {
		return err
	}
	for _, o := range w.Owners {
		if err := c.owners.Del(db, walletID, o); err != nil {
			return errors.Wrap(err, "owner set")
		}
	}
	for _, o := range owners {
		if err := c.owners.Set(db, walletID, o); err != nil {
			return errors.Wrap(err, "owner set")
		}
	}
	w.Owners = owners
	w.Quorum = quorum
	return c.wallets.Save(db, walletID, w)
}
