package funds

import (
	"context"
	"testing"

	"github.com/cloudwalk/brlc-multisig/errors"
	"github.com/cloudwalk/brlc-multisig/msigtest"
	"github.com/cloudwalk/brlc-multisig/store"
)

func TestSendHandler(t *testing.T) {
	db := store.MemStore()
	control := NewController()

	alice := msigtest.NewCondition()
	bob := msigtest.NewCondition()

	if err := control.IssueFunds(db, alice.Address(), 100); err != nil {
		t.Fatal(err)
	}

	auth := &msigtest.Auth{Signer: alice}
	h := NewSendHandler(auth, control)

	msg := &SendMsg{
		Source:      alice.Address(),
		Destination: bob.Address(),
		Amount:      25,
		Memo:        "rent",
	}
	tx := &msigtest.Tx{Msg: msg}
	ctx := context.Background()

	if res, err := h.Check(ctx, db, tx); err != nil {
		t.Fatal(err)
	} else if res.GasAllocated != sendTxCost {
		t.Fatalf("expected %d gas, got %d", sendTxCost, res.GasAllocated)
	}

	if _, err := h.Deliver(ctx, db, tx); err != nil {
		t.Fatal(err)
	}
	if got, err := control.Balance(db, bob.Address()); err != nil || got != 25 {
		t.Fatalf("expected 25, got %d (%v)", got, err)
	}
}

func TestSendHandlerRequiresSourceAuth(t *testing.T) {
	db := store.MemStore()
	control := NewController()

	alice := msigtest.NewCondition()
	bob := msigtest.NewCondition()

	if err := control.IssueFunds(db, alice.Address(), 100); err != nil {
		t.Fatal(err)
	}

	// bob signs a transfer out of alice's account
	auth := &msigtest.Auth{Signer: bob}
	h := NewSendHandler(auth, control)

	msg := &SendMsg{
		Source:      alice.Address(),
		Destination: bob.Address(),
		Amount:      25,
	}
	tx := &msigtest.Tx{Msg: msg}

	if _, err := h.Deliver(context.Background(), db, tx); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("expected unauthorized, got %+v", err)
	}
}

func TestSendMsgValidate(t *testing.T) {
	alice := msigtest.NewCondition().Address()
	bob := msigtest.NewCondition().Address()

	cases := map[string]struct {
		msg     *SendMsg
		wantErr *errors.Error
	}{
		"valid": {
			msg: &SendMsg{Source: alice, Destination: bob, Amount: 1},
		},
		"missing source": {
			msg:     &SendMsg{Destination: bob, Amount: 1},
			wantErr: errors.ErrInput,
		},
		"self transfer": {
			msg:     &SendMsg{Source: alice, Destination: alice, Amount: 1},
			wantErr: errors.ErrInput,
		},
		"zero amount": {
			msg:     &SendMsg{Source: alice, Destination: bob, Amount: 0},
			wantErr: errors.ErrAmount,
		},
		"huge memo": {
			msg: &SendMsg{
				Source: alice, Destination: bob, Amount: 1,
				Memo: string(make([]byte, maxMemoSize+1)),
			},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
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
