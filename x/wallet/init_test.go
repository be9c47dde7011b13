package wallet

import (
	"encoding/json"
	"fmt"
	"testing"

	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/msigtest"
	"github.com/cloudwalk/brlc-multisig/orm"
	"github.com/cloudwalk/brlc-multisig/store"
)

func TestGenesisInitializer(t *testing.T) {
	alice := msigtest.NewCondition().Address()
	bob := msigtest.NewCondition().Address()

	const genesis = `
	{
		"wallet": [
			{
				"owners": [%q, %q],
				"quorum": 2,
				"cooldown_time": 3600,
				"expiration_time": 86400
			},
			{
				"owners": [%q],
				"quorum": 1,
				"expiration_time": 3600
			}
		]
	}
	`
	var opts msig.Options
	raw := fmt.Sprintf(genesis, alice, bob, alice)
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %+v", err)
	}

	db := store.MemStore()
	var ini Initializer
	if err := ini.FromGenesis(opts, db); err != nil {
		t.Fatalf("cannot load genesis: %+v", err)
	}

	bucket := NewWalletBucket()
	w, err := bucket.GetWallet(db, orm.EncodeSequence(1))
	if err != nil {
		t.Fatalf("cannot load wallet: %+v", err)
	}
	if len(w.Owners) != 2 || w.Quorum != 2 || w.CooldownTime != 3600 || w.ExpirationTime != 86400 {
		t.Fatalf("unexpected wallet: %+v", w)
	}

	owners := NewOwnerBucket()
	for _, o := range w.Owners {
		if ok, err := owners.IsOwner(db, orm.EncodeSequence(1), o); err != nil || !ok {
			t.Fatalf("owner flag missing for %s (%v)", o, err)
		}
	}

	second, err := bucket.GetWallet(db, orm.EncodeSequence(2))
	if err != nil {
		t.Fatalf("cannot load wallet: %+v", err)
	}
	if len(second.Owners) != 1 || second.Quorum != 1 || second.CooldownTime != 0 {
		t.Fatalf("unexpected wallet: %+v", second)
	}

	if count, err := bucket.WalletCount(db); err != nil || count != 2 {
		t.Fatalf("expected 2 wallets, got %d (%v)", count, err)
	}
}
