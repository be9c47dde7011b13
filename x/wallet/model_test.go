package wallet

import (
	"testing"

	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
	"github.com/cloudwalk/brlc-multisig/msigtest"
)

func TestWalletValidate(t *testing.T) {
	alice := msigtest.NewCondition().Address()
	bob := msigtest.NewCondition().Address()

	cases := map[string]struct {
		wallet  Wallet
		wantErr *errors.Error
	}{
		"valid": {
			wallet: Wallet{
				Owners:         []msig.Address{alice, bob},
				Quorum:         2,
				ExpirationTime: minExpirationTime,
			},
		},
		"no owners": {
			wallet: Wallet{
				Quorum:         1,
				ExpirationTime: minExpirationTime,
			},
			wantErr: errors.ErrModel,
		},
		"duplicate owner": {
			wallet: Wallet{
				Owners:         []msig.Address{alice, alice},
				Quorum:         1,
				ExpirationTime: minExpirationTime,
			},
			wantErr: errors.ErrDuplicate,
		},
		"invalid owner address": {
			wallet: Wallet{
				Owners:         []msig.Address{alice, msig.Address("too-short")},
				Quorum:         1,
				ExpirationTime: minExpirationTime,
			},
			wantErr: errors.ErrInput,
		},
		"zero quorum": {
			wallet: Wallet{
				Owners:         []msig.Address{alice, bob},
				ExpirationTime: minExpirationTime,
			},
			wantErr: errors.ErrModel,
		},
		"quorum above owner count": {
			wallet: Wallet{
				Owners:         []msig.Address{alice, bob},
				Quorum:         3,
				ExpirationTime: minExpirationTime,
			},
			wantErr: errors.ErrModel,
		},
		"expiration below the floor": {
			wallet: Wallet{
				Owners:         []msig.Address{alice, bob},
				Quorum:         2,
				ExpirationTime: minExpirationTime - 1,
			},
			wantErr: errors.ErrModel,
		},
		"negative cooldown": {
			wallet: Wallet{
				Owners:         []msig.Address{alice, bob},
				Quorum:         2,
				CooldownTime:   -1,
				ExpirationTime: minExpirationTime,
			},
			wantErr: errors.ErrState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.wallet.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatal(err)
				}
			} else if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestWalletIsOwner(t *testing.T) {
	alice := msigtest.NewCondition().Address()
	bob := msigtest.NewCondition().Address()
	carl := msigtest.NewCondition().Address()

	w := Wallet{Owners: []msig.Address{alice, bob}}
	if !w.IsOwner(alice) || !w.IsOwner(bob) {
		t.Fatal("owner not recognized")
	}
	if w.IsOwner(carl) {
		t.Fatal("non-owner recognized as owner")
	}
}

func TestTransactionValidate(t *testing.T) {
	dest := msigtest.NewCondition().Address()

	cases := map[string]struct {
		tx      Transaction
		wantErr *errors.Error
	}{
		"valid": {
			tx: Transaction{
				Destination:        dest,
				Amount:             5,
				CooldownDeadline:   100,
				ExpirationDeadline: 200,
			},
		},
		"missing destination": {
			tx: Transaction{
				CooldownDeadline:   100,
				ExpirationDeadline: 200,
			},
			wantErr: errors.ErrInput,
		},
		"negative amount": {
			tx: Transaction{
				Destination:        dest,
				Amount:             -1,
				CooldownDeadline:   100,
				ExpirationDeadline: 200,
			},
			wantErr: errors.ErrAmount,
		},
		"expiration before cooldown": {
			tx: Transaction{
				Destination:        dest,
				CooldownDeadline:   200,
				ExpirationDeadline: 100,
			},
			wantErr: errors.ErrModel,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.tx.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatal(err)
				}
			} else if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestTransactionSerialization(t *testing.T) {
	dest := msigtest.NewCondition().Address()
	src := Transaction{
		Destination:        dest,
		Amount:             42,
		Payload:            []byte("opaque"),
		Executed:           true,
		CooldownDeadline:   100,
		ExpirationDeadline: 200,
		ApprovalCount:      3,
	}
	raw, err := src.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	var got Transaction
	if err := got.Unmarshal(raw); err != nil {
		t.Fatal(err)
	}
	if !got.Destination.Equals(src.Destination) || got.Amount != src.Amount ||
		!got.Executed || got.ApprovalCount != 3 ||
		got.CooldownDeadline != 100 || got.ExpirationDeadline != 200 {
		t.Fatalf("lost data in serialization: %+v", got)
	}
}

func TestWalletCondition(t *testing.T) {
	id := []byte{0, 0, 0, 0, 0, 0, 0, 1}
	cond := WalletCondition(id)
	if err := cond.Validate(); err != nil {
		t.Fatal(err)
	}
	if err := cond.Address().Validate(); err != nil {
		t.Fatal(err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on invalid id")
		}
	}()
	WalletCondition([]byte("x"))
}
