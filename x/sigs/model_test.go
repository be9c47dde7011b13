package sigs

import (
	"testing"

	"github.com/cloudwalk/brlc-multisig/crypto"
	"github.com/cloudwalk/brlc-multisig/errors"
)

func TestUserDataSequence(t *testing.T) {
	user := &UserData{Pubkey: crypto.GenPrivKeyEd25519().PublicKey()}

	if err := user.CheckAndIncrementSequence(5); !ErrInvalidSequence.Is(err) {
		t.Fatalf("expected sequence error, got %+v", err)
	}
	for i := int64(0); i < 3; i++ {
		if err := user.CheckAndIncrementSequence(i); err != nil {
			t.Fatal(err)
		}
	}
	if user.Sequence != 3 {
		t.Fatalf("expected sequence 3, got %d", user.Sequence)
	}
}

func TestUserDataSequenceOverflow(t *testing.T) {
	user := &UserData{
		Pubkey:   crypto.GenPrivKeyEd25519().PublicKey(),
		Sequence: (1 << 53) - 1,
	}
	err := user.CheckAndIncrementSequence((1 << 53) - 1)
	if !errors.ErrOverflow.Is(err) {
		t.Fatalf("expected overflow, got %+v", err)
	}
}

func TestUserDataValidate(t *testing.T) {
	if err := (&UserData{Sequence: -1}).Validate(); !ErrInvalidSequence.Is(err) {
		t.Fatalf("expected sequence error, got %+v", err)
	}
	if err := (&UserData{Sequence: 1}).Validate(); !ErrInvalidSequence.Is(err) {
		t.Fatalf("expected error for sequence without pubkey, got %+v", err)
	}
	if err := (&UserData{}).Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestSetPubkeyOnlyOnce(t *testing.T) {
	user := &UserData{}
	user.SetPubkey(crypto.GenPrivKeyEd25519().PublicKey())

	defer func() {
		if recover() == nil {
			t.Fatal("resetting a pubkey must panic")
		}
	}()
	user.SetPubkey(crypto.GenPrivKeyEd25519().PublicKey())
}
