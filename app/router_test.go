package app

import (
	"context"
	"testing"

	"github.com/cloudwalk/brlc-multisig/errors"
	"github.com/cloudwalk/brlc-multisig/msigtest"
	"github.com/cloudwalk/brlc-multisig/store"
)

func TestRouterSuccess(t *testing.T) {
	r := NewRouter()

	var h msigtest.Handler
	msg := &msigtest.Msg{RoutePath: "test/good"}
	r.Handle(msg, &h)

	tx := &msigtest.Tx{Msg: msg}
	db := store.MemStore()

	if _, err := r.Check(context.Background(), db, tx); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if _, err := r.Deliver(context.Background(), db, tx); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if got := h.CheckCallCount(); got != 1 {
		t.Fatalf("expected one check call, got %d", got)
	}
	if got := h.DeliverCallCount(); got != 1 {
		t.Fatalf("expected one deliver call, got %d", got)
	}
}

func TestRouterNoSuchPath(t *testing.T) {
	r := NewRouter()

	tx := &msigtest.Tx{Msg: &msigtest.Msg{RoutePath: "test/missing"}}
	db := store.MemStore()

	if _, err := r.Check(context.Background(), db, tx); !errors.ErrNotFound.Is(err) {
		t.Fatalf("expected not found, got %+v", err)
	}
	if _, err := r.Deliver(context.Background(), db, tx); !errors.ErrNotFound.Is(err) {
		t.Fatalf("expected not found, got %+v", err)
	}
}

func TestRouterDuplicatePathPanics(t *testing.T) {
	r := NewRouter()
	msg := &msigtest.Msg{RoutePath: "test/good"}
	r.Handle(msg, &msigtest.Handler{})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	r.Handle(msg, &msigtest.Handler{})
}

func TestRouterInvalidPathPanics(t *testing.T) {
	r := NewRouter()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	r.Handle(&msigtest.Msg{RoutePath: "Bad Path!"}, &msigtest.Handler{})
}
