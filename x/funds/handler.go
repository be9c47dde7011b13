package funds

import (
	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
	"github.com/cloudwalk/brlc-multisig/x"
)

const sendTxCost = 100

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r msig.Registry, auth x.Authenticator, control Controller) {
	r.Handle(&SendMsg{}, NewSendHandler(auth, control))
}

// RegisterQuery will register this bucket as "/balances"
func RegisterQuery(qr msig.QueryRouter) {
	NewBucket().Register("balances", qr)
}

// SendHandler will handle sending value
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ msig.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h SendHandler) Check(ctx msig.Context, store msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	var msg SendMsg
	if err := msig.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	// Make sure we have permission from the source
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}

	return &msig.CheckResult{GasAllocated: sendTxCost}, nil
}

// Deliver moves the value from source to destination if
// all preconditions are met
func (h SendHandler) Deliver(ctx msig.Context, store msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	var msg SendMsg
	if err := msig.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	// Make sure we have permission from the source
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}

	if err := h.control.MoveFunds(store, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &msig.DeliverResult{}, nil
}
