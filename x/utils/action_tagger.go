package utils

import (
	"github.com/tendermint/tendermint/libs/common"

	msig "github.com/cloudwalk/brlc-multisig"
)

// ActionTagger will inspect the message being executed and
// add a tag `action = msg.Path()`. This should be applied as
// a decorator so clients have a standard way to search / subscribe
// to eg. wallet transaction submission.
//
// Note that for best results, this should be at the end of the
// ChainDecorators call, so it is tagged with each message type.
type ActionTagger struct{}

var _ msig.Decorator = ActionTagger{}

// ActionKey is used by ActionTagger as the Key in the Tag it appends
const ActionKey = "action"

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check just passes the request along
func (ActionTagger) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx, next msig.Checker) (*msig.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends a tag on the result if there is a success.
func (ActionTagger) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx, next msig.Deliverer) (*msig.DeliverResult, error) {
	// if we error in reporting, let's do so early before dispatching
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}

	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	tag := common.KVPair{
		Key:   []byte(ActionKey),
		Value: []byte(msg.Path()),
	}
	res.Tags = append(res.Tags, tag)
	return res, nil
}
