package server

import (
	"bytes"
	"flag"
	"fmt"
	"io/ioutil"

	"github.com/tendermint/iavl"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/types"

	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
	iavlstore "github.com/cloudwalk/brlc-multisig/store/iavl"
)

const (
	flagUntilError = "error"
	flagMaxTries   = "max"
)

// InlineAppGenerator builds the abci application on top of an already
// opened commit store. Implemented by the app package of the node binary.
type InlineAppGenerator func(msig.CommitKVStore, log.Logger, bool) abci.Application

type retryArgs struct {
	dbPath     string
	blockPath  string
	debug      bool
	untilError bool
	maxTries   int
}

func parseRetryArgs(args []string) (retryArgs, error) {
	if len(args) < 2 {
		return retryArgs{}, errors.Wrap(errors.ErrInput,
			"usage: cmd retry <path to abci.db> <path to block.json> [-debug] [-error] [-max=N]")
	}
	res := retryArgs{
		dbPath:    args[0],
		blockPath: args[1],
	}
	retryFlags := flag.NewFlagSet("retry", flag.ExitOnError)
	retryFlags.BoolVar(&res.debug, flagDebug, false, "print out debug info")
	retryFlags.BoolVar(&res.untilError, flagUntilError, false, "replay until the app hash diverges")
	retryFlags.IntVar(&res.maxTries, flagMaxTries, 10, "maximum number of replays if -error is passed")
	err := retryFlags.Parse(args[2:])
	return res, err
}

// RetryCmd loads the application state and a block extracted by the
// getblock command, rolls the state back to the block's parent and runs
// the block again. A deterministic application recomputes the app hash
// that is already committed; a divergence is reported as an error. With
// -error the replay is repeated up to -max times looking for one.
func RetryCmd(makeApp InlineAppGenerator, decoder msig.TxDecoder, logger log.Logger, home string, args []string) error {
	flags, err := parseRetryArgs(args)
	if err != nil {
		return err
	}

	raw, err := ioutil.ReadFile(flags.blockPath)
	if err != nil {
		return errors.Wrap(err, "cannot read block file")
	}
	var block *types.Block
	if err := cdc.UnmarshalJSON(raw, &block); err != nil {
		return errors.Wrap(err, "cannot decode block")
	}

	tree, version, err := readTree(flags.dbPath)
	if err != nil {
		return errors.Wrap(err, "cannot read application state")
	}
	if version != block.Header.Height {
		return errors.Wrapf(errors.ErrState,
			"state version %d does not match block height %d", version, block.Header.Height)
	}

	build := func(kv msig.CommitKVStore) abci.Application {
		return makeApp(kv, logger, flags.debug)
	}

	same, err := replayBlock(build, decoder, tree, block)
	if err != nil {
		return err
	}
	for same && flags.untilError && flags.maxTries > 0 {
		flags.maxTries--
		same, err = replayBlock(build, decoder, tree, block)
		if err != nil {
			return err
		}
	}
	if !same {
		return errors.Wrap(errors.ErrState, "recomputed app hash diverged")
	}
	return nil
}

// readTree opens an abci.db directory and loads the latest version of
// the application state tree.
func readTree(dir string) (*iavl.MutableTree, int64, error) {
	db, err := openDb(dir)
	if err != nil {
		return nil, 0, err
	}
	tree := iavl.NewMutableTree(db, iavlstore.DefaultCacheSize)
	version, err := tree.LoadVersion(0)
	if err != nil {
		return nil, 0, err
	}
	if version == 0 {
		return nil, 0, errors.Wrap(errors.ErrState, "empty application state")
	}
	return tree, version, nil
}

// replayBlock rolls the tree back to the parent of the given block and
// delivers the block again, reporting every transaction by the wallet
// message it carries. It returns true when the recomputed app hash
// matches the hash the tree held before the rollback.
func replayBlock(build func(msig.CommitKVStore) abci.Application, decoder msig.TxDecoder,
	tree *iavl.MutableTree, block *types.Block) (bool, error) {

	wantHash := tree.Hash()

	parent := block.Header.Height - 1
	if _, err := tree.LoadVersionForOverwriting(parent); err != nil {
		return false, errors.Wrapf(err, "rollback to version %d", parent)
	}
	// the block header records the app hash of its parent state
	if !bytes.Equal(tree.Hash(), block.Header.AppHash) {
		return false, errors.Wrapf(errors.ErrState,
			"app hash at version %d does not match the block header", parent)
	}

	app := build(iavlstore.NewCommitStoreFromTree(tree))
	app.BeginBlock(abci.RequestBeginBlock{
		Hash:   block.Header.Hash(),
		Header: toAbciHeader(block.Header),
	})
	for i, tx := range block.Txs {
		res := app.DeliverTx(tx)
		if res.Code == 0 {
			fmt.Printf("tx %d (%s): ok\n", i, txAction(tx, decoder))
		} else {
			fmt.Printf("tx %d (%s): failed: %s\n", i, txAction(tx, decoder), res.Log)
		}
	}
	app.EndBlock(abci.RequestEndBlock{Height: block.Header.Height})
	gotHash := app.Commit().Data

	fmt.Printf("committed app hash:  %X\n", wantHash)
	fmt.Printf("recomputed app hash: %X\n", gotHash)
	return bytes.Equal(wantHash, gotHash), nil
}

func toAbciHeader(h types.Header) abci.Header {
	lb := h.LastBlockID
	return abci.Header{
		Version: abci.Version{
			Block: uint64(h.Version.Block),
			App:   uint64(h.Version.App),
		},
		ChainID:  h.ChainID,
		Height:   h.Height,
		Time:     h.Time,
		NumTxs:   h.NumTxs,
		TotalTxs: h.TotalTxs,
		LastBlockId: abci.BlockID{
			Hash: lb.Hash,
			PartsHeader: abci.PartSetHeader{
				Total: int32(lb.PartsHeader.Total),
				Hash:  lb.PartsHeader.Hash,
			},
		},
		LastCommitHash:     h.LastCommitHash,
		DataHash:           h.DataHash,
		ValidatorsHash:     h.ValidatorsHash,
		NextValidatorsHash: h.NextValidatorsHash,
		ConsensusHash:      h.ConsensusHash,
		AppHash:            h.AppHash,
		LastResultsHash:    h.LastResultsHash,
		EvidenceHash:       h.EvidenceHash,
		ProposerAddress:    h.ProposerAddress,
	}
}
