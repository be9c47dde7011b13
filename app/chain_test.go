package app

import (
	"context"
	"testing"

	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/msigtest"
	"github.com/cloudwalk/brlc-multisig/store"
)

// tagDecorator appends its name to a log trail so that tests can verify
// the execution order of the chain.
type tagDecorator struct {
	name  string
	trail *[]string
}

var _ msig.Decorator = tagDecorator{}

func (d tagDecorator) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx, next msig.Checker) (*msig.CheckResult, error) {
	*d.trail = append(*d.trail, d.name)
	return next.Check(ctx, db, tx)
}

func (d tagDecorator) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx, next msig.Deliverer) (*msig.DeliverResult, error) {
	*d.trail = append(*d.trail, d.name)
	return next.Deliver(ctx, db, tx)
}

func TestChainDecoratorsOrder(t *testing.T) {
	var trail []string
	var h msigtest.Handler

	stack := ChainDecorators(
		tagDecorator{name: "first", trail: &trail},
		nil, // nils are silently dropped
		tagDecorator{name: "second", trail: &trail},
	).Chain(
		tagDecorator{name: "third", trail: &trail},
	).WithHandler(&h)

	db := store.MemStore()
	tx := &msigtest.Tx{Msg: &msigtest.Msg{RoutePath: "test/chain"}}

	if _, err := stack.Deliver(context.Background(), db, tx); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if h.DeliverCallCount() != 1 {
		t.Fatal("handler not called")
	}

	want := []string{"first", "second", "third"}
	if len(trail) != len(want) {
		t.Fatalf("unexpected trail: %v", trail)
	}
	for i := range want {
		if trail[i] != want[i] {
			t.Fatalf("unexpected trail: %v", trail)
		}
	}
}
