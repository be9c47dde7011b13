package msigtest

import (
	msig "github.com/cloudwalk/brlc-multisig"
)

// Handler implements msig.Handler and records all calls. Returned
// results and errors can be configured through public attributes.
type Handler struct {
	checkCall   int
	CheckResult msig.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult msig.DeliverResult
	DeliverErr    error
}

var _ msig.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	h.checkCall++
	return &h.CheckResult, h.CheckErr
}

func (h *Handler) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	h.deliverCall++
	return &h.DeliverResult, h.DeliverErr
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
