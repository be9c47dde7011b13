package app

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/app"
	"github.com/cloudwalk/brlc-multisig/crypto"
	"github.com/cloudwalk/brlc-multisig/errors"
	"github.com/cloudwalk/brlc-multisig/x/funds"
	"github.com/cloudwalk/brlc-multisig/x/wallet"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// GenInitOptions will produce a basic app_state for dev mode: one rich
// account and one wallet with that account as the only owner.
//
// Owner addresses can be given as arguments (hex). With no arguments a
// fresh keypair is generated and printed out.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var owners []msig.Address
	for _, arg := range args {
		var addr msig.Address
		if err := addr.UnmarshalJSON([]byte(fmt.Sprintf("%q", arg))); err != nil {
			return nil, errors.Wrapf(err, "address %q", arg)
		}
		if err := addr.Validate(); err != nil {
			return nil, errors.Wrapf(err, "address %q", arg)
		}
		owners = append(owners, addr)
	}
	if len(owners) == 0 {
		// if no address provided, auto-generate one
		priv := crypto.GenPrivKeyEd25519()
		addr := priv.PublicKey().Condition().Address()
		fmt.Printf("Generated owner address: %s\n", addr)
		owners = append(owners, addr)
	}

	type dict map[string]interface{}
	accounts := make([]dict, 0, len(owners))
	for _, o := range owners {
		accounts = append(accounts, dict{
			"address": o,
			"amount":  123456789,
		})
	}
	return json.Marshal(dict{
		"funds": accounts,
		"wallet": []dict{
			{
				"owners":          owners,
				"quorum":          1,
				"cooldown_time":   0,
				"expiration_time": 7 * 24 * 3600,
			},
		},
	})
}

// Initializers returns the genesis initialization of every extension.
func Initializers() msig.Initializer {
	return app.ChainInitializers(
		funds.Initializer{},
		wallet.Initializer{},
	)
}

// GenerateApp is used to create a stub for the server/start.go command.
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "abci.db")
	}

	stack := Stack()
	application, err := Application("bmsig", stack, TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())

	// set the logger and return
	application.WithLogger(logger)
	return application, nil
}

// InlineApp builds the application on top of an already opened store.
// It is wired into the block replay command.
func InlineApp(kv msig.CommitKVStore, logger log.Logger, debug bool) abci.Application {
	application := AppFromStore("bmsig", Stack(), TxDecoder, kv, debug, context.Background())
	application.WithInit(Initializers())
	application.WithLogger(logger)
	return application
}
