package crypto

import (
	"testing"
)

func TestSignAndVerify(t *testing.T) {
	private := GenPrivKeyEd25519()
	public := private.PublicKey()

	msg := []byte("foobar")
	sig, err := private.Sign(msg)
	if err != nil {
		t.Fatal(err)
	}

	if !public.Verify(msg, sig) {
		t.Fatal("signature must verify")
	}
	if public.Verify([]byte("other message"), sig) {
		t.Fatal("signature must not verify a different message")
	}
	if public.Verify(msg, &Signature{}) {
		t.Fatal("empty signature must not verify")
	}
	if public.Verify(msg, nil) {
		t.Fatal("nil signature must not verify")
	}

	other := GenPrivKeyEd25519().PublicKey()
	if other.Verify(msg, sig) {
		t.Fatal("signature must not verify under a different key")
	}
}

func TestPrivKeyFromSeedIsDeterministic(t *testing.T) {
	seed := make([]byte, 32)
	copy(seed, "my very secret seed")

	a := PrivKeyEd25519FromSeed(seed)
	b := PrivKeyEd25519FromSeed(seed)

	if !a.PublicKey().Condition().Equals(b.PublicKey().Condition()) {
		t.Fatal("same seed must produce the same key")
	}
}

func TestConditionAddress(t *testing.T) {
	public := GenPrivKeyEd25519().PublicKey()
	cond := public.Condition()
	if err := cond.Validate(); err != nil {
		t.Fatal(err)
	}
	if err := cond.Address().Validate(); err != nil {
		t.Fatal(err)
	}
}
