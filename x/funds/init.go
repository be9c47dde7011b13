package funds

import (
	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
)

const optKey = "funds"

// GenesisAccount is used to parse the json from genesis file
// use msig.Address, so address in hex, not base64
type GenesisAccount struct {
	Address msig.Address `json:"address"`
	Amount  int64        `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ msig.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts msig.Options, kv msig.KVStore) error {
	accts := []GenesisAccount{}
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	control := NewController()
	for _, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrap(err, "genesis account address")
		}
		if err := control.IssueFunds(kv, acct.Address, acct.Amount); err != nil {
			return errors.Wrap(err, "genesis account amount")
		}
	}
	return nil
}
