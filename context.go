/*
Package msig defines all common interfaces that weave together the various
subpackages of the multisig wallet engine, as well as implementations of
some of the simpler components (when interfaces would be too much overhead).

We pass context through context.Context between app, middleware, and
handlers. To do so, msig defines some common keys to store info, such as
block height and chain id. Each extension, such as sigs or wallet, may add
its own keys to enrich the context with specific data.

There should exist two functions for every XYZ of type T that we want to
support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)
*/
package msig

import (
	"context"
	"regexp"
	"time"

	"github.com/tendermint/tendermint/libs/log"
)

// Context is just a typedef that we use for code readability.
type Context = context.Context

type contextKey int // local to the msig module

const (
	contextKeyHeight contextKey = iota
	contextKeyChainID
	contextKeyLogger
	contextKeyTime
)

var (
	// DefaultLogger is used for all context that have not set anything
	// themselves.
	DefaultLogger = log.NewNopLogger()

	// IsValidChainID is the RegExp to ensure valid chain IDs.
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

// WithHeight sets the block height for the Context.
func WithHeight(ctx Context, height int64) Context {
	return context.WithValue(ctx, contextKeyHeight, height)
}

// GetHeight returns the current block height. ok is false if no height is
// set yet.
func GetHeight(ctx Context) (int64, bool) {
	val, ok := ctx.Value(contextKeyHeight).(int64)
	return val, ok
}

// WithChainID sets the chain id for the Context. Panics on invalid chain id.
func WithChainID(ctx Context, chainID string) Context {
	if !IsValidChainID(chainID) {
		panic("invalid chain id: " + chainID)
	}
	return context.WithValue(ctx, contextKeyChainID, chainID)
}

// HasChainID returns true if the chain id is present in the context.
func HasChainID(ctx Context) bool {
	_, ok := ctx.Value(contextKeyChainID).(string)
	return ok
}

// GetChainID returns the chain id. Panics if the chain id was never set, as
// this is an app-level configuration error.
func GetChainID(ctx Context) string {
	val, ok := ctx.Value(contextKeyChainID).(string)
	if !ok {
		panic("chain id not set")
	}
	return val
}

// WithBlockTime sets the block time for the Context. Block time is always
// represented in UTC.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, contextKeyTime, t.UTC())
}

// BlockTime returns the current block time. ok is false if the block time
// is not present, which means the context was not correctly initialized.
func BlockTime(ctx Context) (time.Time, bool) {
	val, ok := ctx.Value(contextKeyTime).(time.Time)
	return val, ok
}

// IsExpired returns true if the given deadline is in the past as compared
// to the "now" declared for the block. The deadline itself still belongs to
// the active window: the function returns false when the current block time
// is exactly equal to the deadline.
//
// Panics when the block time is not present in the context, as the block
// time is a part of a mandatory context setup.
func IsExpired(ctx Context, deadline UnixTime) bool {
	now, ok := BlockTime(ctx)
	if !ok {
		panic("block time not present in the context")
	}
	return now.After(deadline.Time())
}

// InThePast returns true if the given time is in the past compared to the
// current time as declared in the context. This function is not inclusive
// of current time.
func InThePast(ctx Context, t time.Time) bool {
	now, ok := BlockTime(ctx)
	if !ok {
		panic("block time not present in the context")
	}
	return t.Before(now)
}

// WithLogger sets the logger for the Context.
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the logger stored in the Context, or the DefaultLogger.
func GetLogger(ctx Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if ok {
		return val
	}
	return DefaultLogger
}

// WithLogInfo accepts keyvalue pairs, and returns another context like
// this, after passing all the keyvals to the Logger.
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}
