package utils

import (
	"context"
	"testing"

	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
	"github.com/cloudwalk/brlc-multisig/msigtest"
	"github.com/cloudwalk/brlc-multisig/store"
)

func TestActionTagger(t *testing.T) {
	cases := map[string]struct {
		tx       msig.Tx
		handler  *msigtest.Handler
		wantErr  *errors.Error
		wantTags []string
	}{
		"tag added on success": {
			tx:       &msigtest.Tx{Msg: &msigtest.Msg{RoutePath: "wallet/submit"}},
			handler:  &msigtest.Handler{},
			wantTags: []string{"wallet/submit"},
		},
		"no tag on handler failure": {
			tx:      &msigtest.Tx{Msg: &msigtest.Msg{RoutePath: "wallet/submit"}},
			handler: &msigtest.Handler{DeliverErr: errors.ErrState},
			wantErr: errors.ErrState,
		},
		"broken transaction is rejected before dispatch": {
			tx:      &msigtest.Tx{Err: errors.ErrMsg},
			handler: &msigtest.Handler{},
			wantErr: errors.ErrMsg,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			res, err := NewActionTagger().Deliver(context.Background(), db, tc.tx, tc.handler)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if err != nil {
				return
			}
			if len(res.Tags) != len(tc.wantTags) {
				t.Fatalf("want %d tags, got %d", len(tc.wantTags), len(res.Tags))
			}
			for i, want := range tc.wantTags {
				if string(res.Tags[i].Key) != ActionKey {
					t.Errorf("tag %d: unexpected key %q", i, res.Tags[i].Key)
				}
				if got := string(res.Tags[i].Value); got != want {
					t.Errorf("tag %d: want value %q, got %q", i, want, got)
				}
			}
		})
	}
}
