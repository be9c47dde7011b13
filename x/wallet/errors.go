package wallet

import (
	"github.com/cloudwalk/brlc-multisig/errors"
)

var (
	// ErrAlreadyExecuted is returned when operating on a transaction that
	// was already executed. Execution is terminal.
	ErrAlreadyExecuted = errors.Register(110, "already executed")

	// ErrAlreadyApproved is returned when an owner approves the same
	// transaction twice.
	ErrAlreadyApproved = errors.Register(111, "already approved")

	// ErrNotApproved is returned when revoking an approval that was never
	// granted.
	ErrNotApproved = errors.Register(112, "not approved")

	// ErrCooldown is returned when executing a transaction before its
	// cooldown deadline.
	ErrCooldown = errors.Register(113, "cooldown not passed")

	// ErrInsufficientApprovals is returned when executing a transaction
	// with less approvals than the wallet quorum.
	ErrInsufficientApprovals = errors.Register(114, "insufficient approvals")
)
