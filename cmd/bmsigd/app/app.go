/*
Package app wires together every extension of the multisig application
into one ABCI app: signature verification, the funds ledger and the
wallet state machine, on top of an iavl backed store.
*/
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/app"
	"github.com/cloudwalk/brlc-multisig/store/iavl"
	"github.com/cloudwalk/brlc-multisig/x"
	"github.com/cloudwalk/brlc-multisig/x/funds"
	"github.com/cloudwalk/brlc-multisig/x/sigs"
	"github.com/cloudwalk/brlc-multisig/x/utils"
	"github.com/cloudwalk/brlc-multisig/x/wallet"
)

// Authenticator returns the authentication used by the application:
// public key signatures, extended with wallet conditions so that
// executed payloads act with the wallet's own identity.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{}, wallet.Authenticate{})
}

// FundsControl returns a controller for the value ledger.
func FundsControl() funds.BankController {
	return funds.NewController()
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain(authFn x.Authenticator) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		utils.NewActionTagger(),
		// on DeliverTx, failed tx must leave no partial writes
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns the message router. Wallet payloads are dispatched
// back into the same router, so everything a transaction can do a
// wallet can do as well.
func Router(authFn x.Authenticator, control funds.BankController) app.Router {
	r := app.NewRouter()
	wallet.RegisterRoutes(r, authFn, control, DecodePayload, wallet.HandlerAsExecutor(r))
	funds.RegisterRoutes(r, authFn, control)
	return r
}

// QueryRouter returns a default query router, allowing access to
// "/wallets", "/transactions", "/owners", "/approvals", "/accounts"
// and "/auth".
func QueryRouter() msig.QueryRouter {
	r := msig.NewQueryRouter()
	r.RegisterAll(
		wallet.RegisterQuery,
		funds.RegisterQuery,
		sigs.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator chain.
// This can be passed into BaseApp.
func Stack() msig.Handler {
	authFn := Authenticator()
	return Chain(authFn).WithHandler(Router(authFn, FundsControl()))
}

// Application constructs a basic ABCI application with the given
// arguments. If you are not sure what to use for the Handler, just
// use Stack().
func Application(name string, h msig.Handler,
	tx msig.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {

	ctx := context.Background()
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	return AppFromStore(name, h, tx, kv, debug, ctx), nil
}

// AppFromStore builds the application on top of an already opened
// store. Used directly by block replay tooling.
func AppFromStore(name string, h msig.Handler, tx msig.TxDecoder,
	kv msig.CommitKVStore, debug bool, ctx msig.Context) app.BaseApp {

	store := app.NewStoreApp(name, kv, QueryRouter(), ctx)
	return app.NewBaseApp(store, tx, h, debug)
}

// CommitKVStore returns an initialized KVStore that persists the data
// to the named path.
func CommitKVStore(dbPath string) (msig.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("Invalid Database Name: %s", path)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
