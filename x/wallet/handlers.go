package wallet

import (
	"fmt"
	"strconv"

	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
	"github.com/cloudwalk/brlc-multisig/x"
	"github.com/cloudwalk/brlc-multisig/x/funds"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	creationCost  int64 = 300
	submitCost    int64 = 100
	approveCost   int64 = 50
	revokeCost    int64 = 50
	executeCost   int64 = 200
	configureCost int64 = 50
)

// RegisterRoutes will instantiate and register all handlers in this
// package. The executor is called to dispatch transaction payloads and
// usually wraps the application router, which makes the configuration
// messages reachable through the wallet pipeline only.
func RegisterRoutes(r msig.Registry, auth x.Authenticator, control funds.Controller, decoder PayloadDecoder, executor Executor) {
	c := newController(auth, control, decoder, executor)

	r.Handle(&CreateWalletMsg{}, CreateWalletHandler{c: c})
	r.Handle(&SubmitMsg{}, SubmitHandler{c: c})
	r.Handle(&SubmitApproveMsg{}, SubmitHandler{c: c, selfApprove: true})
	r.Handle(&ApproveMsg{}, ApproveHandler{c: c})
	r.Handle(&ApproveBatchMsg{}, ApproveBatchHandler{c: c})
	r.Handle(&RevokeMsg{}, RevokeHandler{c: c})
	r.Handle(&RevokeBatchMsg{}, RevokeBatchHandler{c: c})
	r.Handle(&ExecuteMsg{}, ExecuteHandler{c: c})
	r.Handle(&ApproveExecuteMsg{}, ExecuteHandler{c: c, approveFirst: true})
	r.Handle(&ExecuteBatchMsg{}, ExecuteBatchHandler{c: c})
	r.Handle(&ApproveExecuteBatchMsg{}, ExecuteBatchHandler{c: c, approveFirst: true})
	r.Handle(&ConfigureOwnersMsg{}, ConfigureOwnersHandler{c: c})
	r.Handle(&ConfigureCooldownMsg{}, ConfigureCooldownHandler{c: c})
	r.Handle(&ConfigureExpirationMsg{}, ConfigureExpirationHandler{c: c})
	r.Handle(&ApproveUpgradeMsg{}, ApproveUpgradeHandler{c: c})
}

// RegisterQuery registers all buckets in this package.
func RegisterQuery(qr msig.QueryRouter) {
	NewWalletBucket().Register("wallets", qr)
	NewTransactionBucket().Register("transactions", qr)
	NewOwnerBucket().Register("owners", qr)
	NewApprovalBucket().Register("approvals", qr)
}

func walletTag(walletID []byte) common.KVPair {
	return common.KVPair{Key: []byte("wallet-id"), Value: []byte(fmt.Sprintf("%X", walletID))}
}

func transactionTag(index uint64) common.KVPair {
	return common.KVPair{Key: []byte("transaction-id"), Value: []byte(strconv.FormatUint(index, 10))}
}

func actorTag(actor msig.Address) common.KVPair {
	return common.KVPair{Key: []byte("actor"), Value: []byte(actor.String())}
}

// CreateWalletHandler creates a new wallet for the given owner set.
type CreateWalletHandler struct {
	c controller
}

var _ msig.Handler = CreateWalletHandler{}

func (h CreateWalletHandler) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &msig.CheckResult{GasAllocated: creationCost}, nil
}

func (h CreateWalletHandler) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	w := &Wallet{
		Owners:         msg.Owners,
		Quorum:         msg.Quorum,
		CooldownTime:   msg.CooldownTime,
		ExpirationTime: msg.ExpirationTime,
	}
	id, err := h.c.create(db, w)
	if err != nil {
		return nil, err
	}
	return &msig.DeliverResult{
		Data: id,
		Tags: []common.KVPair{walletTag(id)},
	}, nil
}

func (h CreateWalletHandler) validate(ctx msig.Context, tx msig.Tx) (*CreateWalletMsg, error) {
	var msg CreateWalletMsg
	if err := msig.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if x.MainSigner(ctx, h.c.auth) == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, nil
}

// SubmitHandler appends a new transaction to a wallet ledger. With
// selfApprove set it additionally records the approval of the sender, so
// it serves both the plain and the fused submit message.
type SubmitHandler struct {
	c           controller
	selfApprove bool
}

var _ msig.Handler = SubmitHandler{}

func (h SubmitHandler) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	msg, err := h.loadMsg(tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.c.ownerCaller(ctx, db, msg.WalletID); err != nil {
		return nil, err
	}
	cost := submitCost
	if h.selfApprove {
		cost += approveCost
	}
	return &msig.CheckResult{GasAllocated: cost}, nil
}

func (h SubmitHandler) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	msg, err := h.loadMsg(tx)
	if err != nil {
		return nil, err
	}
	owner, err := h.c.ownerCaller(ctx, db, msg.WalletID)
	if err != nil {
		return nil, err
	}
	index, err := h.c.submit(ctx, db, msg.WalletID, msg.Destination, msg.Amount, msg.Payload)
	if err != nil {
		return nil, err
	}
	if h.selfApprove {
		if err := h.c.approve(ctx, db, msg.WalletID, index, owner); err != nil {
			return nil, err
		}
	}
	return &msig.DeliverResult{
		Data: encodeIndex(index),
		Tags: []common.KVPair{walletTag(msg.WalletID), transactionTag(index), actorTag(owner)},
	}, nil
}

func (h SubmitHandler) loadMsg(tx msig.Tx) (*SubmitMsg, error) {
	if h.selfApprove {
		var msg SubmitApproveMsg
		if err := msig.LoadMsg(tx, &msg); err != nil {
			return nil, errors.Wrap(err, "load msg")
		}
		return &SubmitMsg{
			WalletID:    msg.WalletID,
			Destination: msg.Destination,
			Amount:      msg.Amount,
			Payload:     msg.Payload,
		}, nil
	}
	var msg SubmitMsg
	if err := msig.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &msg, nil
}

// ApproveHandler records an approval of the sender.
type ApproveHandler struct {
	c controller
}

var _ msig.Handler = ApproveHandler{}

func (h ApproveHandler) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	var msg ApproveMsg
	if err := msig.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.c.ownerCaller(ctx, db, msg.WalletID); err != nil {
		return nil, err
	}
	return &msig.CheckResult{GasAllocated: approveCost}, nil
}

func (h ApproveHandler) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	var msg ApproveMsg
	if err := msig.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	owner, err := h.c.ownerCaller(ctx, db, msg.WalletID)
	if err != nil {
		return nil, err
	}
	if err := h.c.approve(ctx, db, msg.WalletID, msg.TransactionID, owner); err != nil {
		return nil, err
	}
	return &msig.DeliverResult{
		Tags: []common.KVPair{walletTag(msg.WalletID), transactionTag(msg.TransactionID), actorTag(owner)},
	}, nil
}

// ApproveBatchHandler approves several transactions. Any failing
// approval aborts the whole message; the savepoint around the delivery
// discards all partial writes.
type ApproveBatchHandler struct {
	c controller
}

var _ msig.Handler = ApproveBatchHandler{}

func (h ApproveBatchHandler) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	var msg ApproveBatchMsg
	if err := msig.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.c.ownerCaller(ctx, db, msg.WalletID); err != nil {
		return nil, err
	}
	return &msig.CheckResult{GasAllocated: approveCost * int64(len(msg.TransactionIDs))}, nil
}

func (h ApproveBatchHandler) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	var msg ApproveBatchMsg
	if err := msig.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	owner, err := h.c.ownerCaller(ctx, db, msg.WalletID)
	if err != nil {
		return nil, err
	}
	tags := []common.KVPair{walletTag(msg.WalletID), actorTag(owner)}
	for _, index := range msg.TransactionIDs {
		if err := h.c.approve(ctx, db, msg.WalletID, index, owner); err != nil {
			return nil, errors.Wrapf(err, "transaction %d", index)
		}
		tags = append(tags, transactionTag(index))
	}
	return &msig.DeliverResult{Tags: tags}, nil
}

// RevokeHandler withdraws an approval of the sender.
type RevokeHandler struct {
	c controller
}

var _ msig.Handler = RevokeHandler{}

func (h RevokeHandler) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	var msg RevokeMsg
	if err := msig.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.c.ownerCaller(ctx, db, msg.WalletID); err != nil {
		return nil, err
	}
	return &msig.CheckResult{GasAllocated: revokeCost}, nil
}

func (h RevokeHandler) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	var msg RevokeMsg
	if err := msig.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	owner, err := h.c.ownerCaller(ctx, db, msg.WalletID)
	if err != nil {
		return nil, err
	}
	if err := h.c.revoke(ctx, db, msg.WalletID, msg.TransactionID, owner); err != nil {
		return nil, err
	}
	return &msig.DeliverResult{
		Tags: []common.KVPair{walletTag(msg.WalletID), transactionTag(msg.TransactionID), actorTag(owner)},
	}, nil
}

// RevokeBatchHandler revokes several approvals with all or nothing
// semantics.
type RevokeBatchHandler struct {
	c controller
}

var _ msig.Handler = RevokeBatchHandler{}

func (h RevokeBatchHandler) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	var msg RevokeBatchMsg
	if err := msig.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.c.ownerCaller(ctx, db, msg.WalletID); err != nil {
		return nil, err
	}
	return &msig.CheckResult{GasAllocated: revokeCost * int64(len(msg.TransactionIDs))}, nil
}

func (h RevokeBatchHandler) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	var msg RevokeBatchMsg
	if err := msig.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	owner, err := h.c.ownerCaller(ctx, db, msg.WalletID)
	if err != nil {
		return nil, err
	}
	tags := []common.KVPair{walletTag(msg.WalletID), actorTag(owner)}
	for _, index := range msg.TransactionIDs {
		if err := h.c.revoke(ctx, db, msg.WalletID, index, owner); err != nil {
			return nil, errors.Wrapf(err, "transaction %d", index)
		}
		tags = append(tags, transactionTag(index))
	}
	return &msig.DeliverResult{Tags: tags}, nil
}

// ExecuteHandler performs a transaction. With approveFirst set it records
// the approval of the sender before the quorum check, serving the fused
// approve and execute message.
type ExecuteHandler struct {
	c            controller
	approveFirst bool
}

var _ msig.Handler = ExecuteHandler{}

func (h ExecuteHandler) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	msg, err := h.loadMsg(tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.c.ownerCaller(ctx, db, msg.WalletID); err != nil {
		return nil, err
	}
	cost := executeCost
	if h.approveFirst {
		cost += approveCost
	}
	return &msig.CheckResult{GasAllocated: cost}, nil
}

func (h ExecuteHandler) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	msg, err := h.loadMsg(tx)
	if err != nil {
		return nil, err
	}
	owner, err := h.c.ownerCaller(ctx, db, msg.WalletID)
	if err != nil {
		return nil, err
	}
	if h.approveFirst {
		if err := h.c.approve(ctx, db, msg.WalletID, msg.TransactionID, owner); err != nil {
			return nil, err
		}
	}
	res, err := h.c.execute(ctx, db, msg.WalletID, msg.TransactionID)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, walletTag(msg.WalletID), transactionTag(msg.TransactionID), actorTag(owner))
	return res, nil
}

func (h ExecuteHandler) loadMsg(tx msig.Tx) (*ExecuteMsg, error) {
	if h.approveFirst {
		var msg ApproveExecuteMsg
		if err := msig.LoadMsg(tx, &msg); err != nil {
			return nil, errors.Wrap(err, "load msg")
		}
		return &ExecuteMsg{WalletID: msg.WalletID, TransactionID: msg.TransactionID}, nil
	}
	var msg ExecuteMsg
	if err := msig.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &msg, nil
}

// ExecuteBatchHandler executes several transactions in the caller chosen
// order with all or nothing semantics.
type ExecuteBatchHandler struct {
	c            controller
	approveFirst bool
}

var _ msig.Handler = ExecuteBatchHandler{}

func (h ExecuteBatchHandler) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	msg, err := h.loadMsg(tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.c.ownerCaller(ctx, db, msg.WalletID); err != nil {
		return nil, err
	}
	cost := executeCost
	if h.approveFirst {
		cost += approveCost
	}
	return &msig.CheckResult{GasAllocated: cost * int64(len(msg.TransactionIDs))}, nil
}

func (h ExecuteBatchHandler) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	msg, err := h.loadMsg(tx)
	if err != nil {
		return nil, err
	}
	owner, err := h.c.ownerCaller(ctx, db, msg.WalletID)
	if err != nil {
		return nil, err
	}
	res := &msig.DeliverResult{
		Tags: []common.KVPair{walletTag(msg.WalletID), actorTag(owner)},
	}
	for _, index := range msg.TransactionIDs {
		if h.approveFirst {
			if err := h.c.approve(ctx, db, msg.WalletID, index, owner); err != nil {
				return nil, errors.Wrapf(err, "transaction %d", index)
			}
		}
		sub, err := h.c.execute(ctx, db, msg.WalletID, index)
		if err != nil {
			return nil, errors.Wrapf(err, "transaction %d", index)
		}
		res.Tags = append(res.Tags, transactionTag(index))
		res.Tags = append(res.Tags, sub.Tags...)
		res.GasUsed += sub.GasUsed
	}
	return res, nil
}

func (h ExecuteBatchHandler) loadMsg(tx msig.Tx) (*ExecuteBatchMsg, error) {
	if h.approveFirst {
		var msg ApproveExecuteBatchMsg
		if err := msig.LoadMsg(tx, &msg); err != nil {
			return nil, errors.Wrap(err, "load msg")
		}
		return &ExecuteBatchMsg{WalletID: msg.WalletID, TransactionIDs: msg.TransactionIDs}, nil
	}
	var msg ExecuteBatchMsg
	if err := msig.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &msg, nil
}

// ConfigureOwnersHandler replaces the owner set and quorum. Authorized
// by the wallet condition only.
type ConfigureOwnersHandler struct {
	c controller
}

var _ msig.Handler = ConfigureOwnersHandler{}

func (h ConfigureOwnersHandler) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &msig.CheckResult{GasAllocated: configureCost}, nil
}

func (h ConfigureOwnersHandler) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.c.configureOwners(db, msg.WalletID, msg.Owners, msg.Quorum); err != nil {
		return nil, err
	}
	return &msig.DeliverResult{
		Tags: []common.KVPair{walletTag(msg.WalletID)},
	}, nil
}

func (h ConfigureOwnersHandler) validate(ctx msig.Context, tx msig.Tx) (*ConfigureOwnersMsg, error) {
	var msg ConfigureOwnersMsg
	if err := msig.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.c.walletAuth(ctx, msg.WalletID); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ConfigureCooldownHandler sets the cooldown duration for future
// submissions. Authorized by the wallet condition only.
type ConfigureCooldownHandler struct {
	c controller
}

var _ msig.Handler = ConfigureCooldownHandler{}

func (h ConfigureCooldownHandler) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &msig.CheckResult{GasAllocated: configureCost}, nil
}

func (h ConfigureCooldownHandler) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	w, err := h.c.wallets.GetWallet(db, msg.WalletID)
	if err != nil {
		return nil, err
	}
	w.CooldownTime = msg.CooldownTime
	if err := h.c.wallets.Save(db, msg.WalletID, w); err != nil {
		return nil, err
	}
	return &msig.DeliverResult{
		Tags: []common.KVPair{walletTag(msg.WalletID)},
	}, nil
}

func (h ConfigureCooldownHandler) validate(ctx msig.Context, tx msig.Tx) (*ConfigureCooldownMsg, error) {
	var msg ConfigureCooldownMsg
	if err := msig.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.c.walletAuth(ctx, msg.WalletID); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ConfigureExpirationHandler sets the expiration duration for future
// submissions. Authorized by the wallet condition only.
type ConfigureExpirationHandler struct {
	c controller
}

var _ msig.Handler = ConfigureExpirationHandler{}

func (h ConfigureExpirationHandler) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &msig.CheckResult{GasAllocated: configureCost}, nil
}

func (h ConfigureExpirationHandler) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	w, err := h.c.wallets.GetWallet(db, msg.WalletID)
	if err != nil {
		return nil, err
	}
	w.ExpirationTime = msg.ExpirationTime
	if err := h.c.wallets.Save(db, msg.WalletID, w); err != nil {
		return nil, err
	}
	return &msig.DeliverResult{
		Tags: []common.KVPair{walletTag(msg.WalletID)},
	}, nil
}

func (h ConfigureExpirationHandler) validate(ctx msig.Context, tx msig.Tx) (*ConfigureExpirationMsg, error) {
	var msg ConfigureExpirationMsg
	if err := msig.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.c.walletAuth(ctx, msg.WalletID); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ApproveUpgradeHandler stores the authorization for a code replacement.
// Authorized by the wallet condition only.
type ApproveUpgradeHandler struct {
	c controller
}

var _ msig.Handler = ApproveUpgradeHandler{}

func (h ApproveUpgradeHandler) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &msig.CheckResult{GasAllocated: configureCost}, nil
}

func (h ApproveUpgradeHandler) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	w, err := h.c.wallets.GetWallet(db, msg.WalletID)
	if err != nil {
		return nil, err
	}
	w.ApprovedUpgrade = msg.Implementation
	if err := h.c.wallets.Save(db, msg.WalletID, w); err != nil {
		return nil, err
	}
	return &msig.DeliverResult{
		Tags: []common.KVPair{walletTag(msg.WalletID)},
	}, nil
}

func (h ApproveUpgradeHandler) validate(ctx msig.Context, tx msig.Tx) (*ApproveUpgradeMsg, error) {
	var msg ApproveUpgradeMsg
	if err := msig.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.c.walletAuth(ctx, msg.WalletID); err != nil {
		return nil, err
	}
	return &msg, nil
}
