package wallet

import (
	msig "github.com/cloudwalk/brlc-multisig"
)

// PayloadDecoder parses the opaque transaction payload into a message.
type PayloadDecoder func(raw []byte) (msig.Msg, error)

// Executor dispatches an approved payload message once the owning
// transaction is executed.
type Executor func(ctx msig.Context, store msig.KVStore, msg msig.Msg) (*msig.DeliverResult, error)

// HandlerAsExecutor wraps the msg in a fake Tx to satisfy the Handler
// interface. Since a Router and Decorators also expose this interface, we
// can wrap any stack that does not care about the extra Tx info besides
// Msg.
func HandlerAsExecutor(h msig.Handler) Executor {
	return func(ctx msig.Context, store msig.KVStore, msg msig.Msg) (*msig.DeliverResult, error) {
		tx := &fakeTx{msg: msg}
		return h.Deliver(ctx, store, tx)
	}
}

type fakeTx struct {
	msg msig.Msg
}

var _ msig.Tx = (*fakeTx)(nil)

func (tx *fakeTx) GetMsg() (msig.Msg, error) {
	return tx.msg, nil
}

func (tx *fakeTx) Marshal() ([]byte, error) {
	return tx.msg.Marshal()
}

func (tx *fakeTx) Unmarshal(raw []byte) error {
	// note this will panic if actually run
	return tx.msg.Unmarshal(raw)
}
