package app

import (
	msig "github.com/cloudwalk/brlc-multisig"
)

// ChainInitializers lets you initialize many extensions with one function.
func ChainInitializers(inits ...msig.Initializer) msig.Initializer {
	return chainInitializer{inits: inits}
}

type chainInitializer struct {
	inits []msig.Initializer
}

// FromGenesis will pass opts to all initializers in the list, returning
// the first error encountered.
func (c chainInitializer) FromGenesis(opts msig.Options, kv msig.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
