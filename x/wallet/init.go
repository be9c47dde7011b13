package wallet

import (
	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
)

const optKey = "wallet"

// genesisWallet is the genesis file representation of one wallet.
type genesisWallet struct {
	Owners         []msig.Address    `json:"owners"`
	Quorum         uint32            `json:"quorum"`
	CooldownTime   msig.UnixDuration `json:"cooldown_time"`
	ExpirationTime msig.UnixDuration `json:"expiration_time"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ msig.Initializer = Initializer{}

// FromGenesis will parse initial wallet configurations from genesis and
// save them to the database. Wallet IDs are assigned in the order of
// declaration.
func (Initializer) FromGenesis(opts msig.Options, kv msig.KVStore) error {
	gws := []genesisWallet{}
	if err := opts.ReadOptions(optKey, &gws); err != nil {
		return err
	}
	wallets := NewWalletBucket()
	owners := NewOwnerBucket()
	for i, gw := range gws {
		w := &Wallet{
			Owners:         gw.Owners,
			Quorum:         gw.Quorum,
			CooldownTime:   gw.CooldownTime,
			ExpirationTime: gw.ExpirationTime,
		}
		id, err := wallets.Create(kv, w)
		if err != nil {
			return errors.Wrapf(err, "genesis wallet #%d", i)
		}
		for _, o := range gw.Owners {
			if err := owners.Set(kv, id, o); err != nil {
				return errors.Wrapf(err, "genesis wallet #%d owners", i)
			}
		}
	}
	return nil
}
