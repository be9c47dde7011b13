package wallet

import (
	"context"

	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/x"
)

type contextKey int // local to the wallet module

const (
	contextKeyWallet contextKey = iota
)

// withWallet is private as only the payload dispatch of this module may
// grant the wallet condition. The returned context is built fresh: the
// block values of the parent carry over, the caller's personal conditions
// do not. A dispatched payload acts with the wallet's authority alone.
func withWallet(ctx msig.Context, id []byte) msig.Context {
	scoped := msig.Context(context.Background())
	if height, ok := msig.GetHeight(ctx); ok {
		scoped = msig.WithHeight(scoped, height)
	}
	if now, ok := msig.BlockTime(ctx); ok {
		scoped = msig.WithBlockTime(scoped, now)
	}
	if msig.HasChainID(ctx) {
		scoped = msig.WithChainID(scoped, msig.GetChainID(ctx))
	}
	scoped = msig.WithLogger(scoped, msig.GetLogger(ctx))
	return context.WithValue(scoped, contextKeyWallet, WalletCondition(id))
}

// Authenticate implements x.Authenticator for the wallet condition. It is
// satisfied only inside a payload dispatch of the wallet the condition
// belongs to.
type Authenticate struct {
}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the wallet condition if set on this context.
func (a Authenticate) GetConditions(ctx msig.Context) []msig.Condition {
	val, _ := ctx.Value(contextKeyWallet).(msig.Condition)
	if val == nil {
		return nil
	}
	return []msig.Condition{val}
}

// HasAddress returns true iff this address is in GetConditions.
func (a Authenticate) HasAddress(ctx msig.Context, addr msig.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
