package sigs

import (
	"testing"

	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/crypto"
	"github.com/cloudwalk/brlc-multisig/errors"
	"github.com/cloudwalk/brlc-multisig/store"
)

// sigTx is a minimal SignedTx implementation for tests.
type sigTx struct {
	payload []byte
	sigs    []*StdSignature
}

var _ SignedTx = (*sigTx)(nil)

func (tx *sigTx) GetMsg() (msig.Msg, error)        { return nil, nil }
func (tx *sigTx) Marshal() ([]byte, error)         { return tx.payload, nil }
func (tx *sigTx) Unmarshal(b []byte) error         { tx.payload = b; return nil }
func (tx *sigTx) GetSignBytes() ([]byte, error)    { return tx.payload, nil }
func (tx *sigTx) GetSignatures() []*StdSignature   { return tx.sigs }

const chainID = "test-chain-77"

func TestSignAndVerifyTx(t *testing.T) {
	db := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()

	tx := &sigTx{payload: []byte("some transaction")}
	sig, err := SignTx(priv, tx, chainID, 0)
	if err != nil {
		t.Fatal(err)
	}
	tx.sigs = []*StdSignature{sig}

	signers, err := VerifyTxSignatures(db, tx, chainID)
	if err != nil {
		t.Fatal(err)
	}
	if len(signers) != 1 {
		t.Fatalf("expected 1 signer, got %d", len(signers))
	}
	if !signers[0].Equals(priv.PublicKey().Condition()) {
		t.Fatal("unexpected signer condition")
	}

	// the account sequence is now 1
	user, err := NewBucket().Get(db, priv.PublicKey().Condition().Address())
	if err != nil {
		t.Fatal(err)
	}
	if user == nil || user.Sequence != 1 {
		t.Fatalf("expected sequence 1, got %+v", user)
	}
}

func TestVerifyRejectsReplay(t *testing.T) {
	db := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()

	tx := &sigTx{payload: []byte("pay alice")}
	sig, err := SignTx(priv, tx, chainID, 0)
	if err != nil {
		t.Fatal(err)
	}
	tx.sigs = []*StdSignature{sig}

	if _, err := VerifyTxSignatures(db, tx, chainID); err != nil {
		t.Fatal(err)
	}
	// replaying the same nonce must fail
	if _, err := VerifyTxSignatures(db, tx, chainID); !ErrInvalidSequence.Is(err) {
		t.Fatalf("expected sequence error, got %+v", err)
	}
}

func TestVerifyRejectsWrongChain(t *testing.T) {
	db := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()

	tx := &sigTx{payload: []byte("cross chain")}
	sig, err := SignTx(priv, tx, "other-chain-9", 0)
	if err != nil {
		t.Fatal(err)
	}
	tx.sigs = []*StdSignature{sig}

	if _, err := VerifyTxSignatures(db, tx, chainID); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("expected unauthorized, got %+v", err)
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	db := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()

	tx := &sigTx{payload: []byte("original")}
	sig, err := SignTx(priv, tx, chainID, 0)
	if err != nil {
		t.Fatal(err)
	}
	tampered := &sigTx{
		payload: []byte("tampered"),
		sigs:    []*StdSignature{sig},
	}

	if _, err := VerifyTxSignatures(db, tampered, chainID); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("expected unauthorized, got %+v", err)
	}
}

func TestBuildSignBytesRejectsBadInput(t *testing.T) {
	if _, err := BuildSignBytes([]byte("data"), chainID, -1); !ErrInvalidSequence.Is(err) {
		t.Fatalf("expected sequence error, got %+v", err)
	}
	if _, err := BuildSignBytes([]byte("data"), "x", 0); !errors.ErrInput.Is(err) {
		t.Fatalf("expected input error, got %+v", err)
	}
}
