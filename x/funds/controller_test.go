package funds

import (
	"testing"

	"github.com/cloudwalk/brlc-multisig/errors"
	"github.com/cloudwalk/brlc-multisig/msigtest"
	"github.com/cloudwalk/brlc-multisig/store"
)

func TestMoveFunds(t *testing.T) {
	db := store.MemStore()
	control := NewController()

	alice := msigtest.NewCondition().Address()
	bob := msigtest.NewCondition().Address()

	if err := control.IssueFunds(db, alice, 100); err != nil {
		t.Fatal(err)
	}

	if err := control.MoveFunds(db, alice, bob, 40); err != nil {
		t.Fatal(err)
	}

	if got, err := control.Balance(db, alice); err != nil || got != 60 {
		t.Fatalf("expected 60, got %d (%v)", got, err)
	}
	if got, err := control.Balance(db, bob); err != nil || got != 40 {
		t.Fatalf("expected 40, got %d (%v)", got, err)
	}
}

func TestMoveFundsInsufficient(t *testing.T) {
	db := store.MemStore()
	control := NewController()

	alice := msigtest.NewCondition().Address()
	bob := msigtest.NewCondition().Address()

	if err := control.IssueFunds(db, alice, 10); err != nil {
		t.Fatal(err)
	}

	if err := control.MoveFunds(db, alice, bob, 11); !ErrInsufficientFunds.Is(err) {
		t.Fatalf("expected insufficient funds, got %+v", err)
	}
	// failed transfer must not modify any balance
	if got, err := control.Balance(db, alice); err != nil || got != 10 {
		t.Fatalf("expected 10, got %d (%v)", got, err)
	}
	if got, err := control.Balance(db, bob); err != nil || got != 0 {
		t.Fatalf("expected 0, got %d (%v)", got, err)
	}
}

func TestMoveFundsFromEmptyAccount(t *testing.T) {
	db := store.MemStore()
	control := NewController()

	alice := msigtest.NewCondition().Address()
	bob := msigtest.NewCondition().Address()

	if err := control.MoveFunds(db, alice, bob, 1); !ErrInsufficientFunds.Is(err) {
		t.Fatalf("expected insufficient funds, got %+v", err)
	}
}

func TestMoveFundsRejectsNonPositive(t *testing.T) {
	db := store.MemStore()
	control := NewController()

	alice := msigtest.NewCondition().Address()
	bob := msigtest.NewCondition().Address()

	if err := control.MoveFunds(db, alice, bob, 0); !errors.ErrAmount.Is(err) {
		t.Fatalf("expected amount error, got %+v", err)
	}
	if err := control.MoveFunds(db, alice, bob, -4); !errors.ErrAmount.Is(err) {
		t.Fatalf("expected amount error, got %+v", err)
	}
}
