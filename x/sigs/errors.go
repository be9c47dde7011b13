package sigs

import (
	"github.com/cloudwalk/brlc-multisig/errors"
)

// ErrInvalidSequence is returned whenever the sequence (nonce) of a
// signature does not match the expected account state.
var ErrInvalidSequence = errors.Register(100, "invalid sequence")
