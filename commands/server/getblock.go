package server

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	amino "github.com/tendermint/go-amino"
	"github.com/tendermint/tendermint/blockchain"
	dbm "github.com/tendermint/tendermint/libs/db"
	"github.com/tendermint/tendermint/libs/log"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	"github.com/tendermint/tendermint/types"

	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
)

const flagHeight = "height"

// cdc knows how to serialize the tendermint block structures.
var cdc = amino.NewCodec()

func init() {
	ctypes.RegisterAmino(cdc)
}

// GetBlockCmd extracts a block from a blockstore.db and writes it to
// stdout as JSON, followed by a one line summary per transaction naming
// the wallet message it carries. The last block is used unless -height
// is given. The JSON output is the input format of the retry command.
func GetBlockCmd(decoder msig.TxDecoder, logger log.Logger, home string, args []string) error {
	if len(args) == 0 {
		return errors.Wrap(errors.ErrInput,
			"usage: cmd getblock <path to blockstore.db> [-height=H]")
	}
	var height int64
	getBlockFlags := flag.NewFlagSet("getblock", flag.ExitOnError)
	getBlockFlags.Int64Var(&height, flagHeight, 0, "height of the block to extract (default latest)")
	if err := getBlockFlags.Parse(args[1:]); err != nil {
		return err
	}

	db, err := openDb(args[0])
	if err != nil {
		return err
	}
	bs := blockchain.NewBlockStore(db)
	if height == 0 {
		height = bs.Height()
	}
	block := bs.LoadBlock(height)
	if block == nil {
		return errors.Wrapf(errors.ErrNotFound, "no block for height %d", height)
	}

	js, err := cdc.MarshalJSONIndent(block, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(js))
	for _, line := range blockSummary(block, decoder) {
		fmt.Println(line)
	}
	return nil
}

// blockSummary describes every transaction of a block by the path of the
// message it carries.
func blockSummary(block *types.Block, decoder msig.TxDecoder) []string {
	lines := make([]string, 0, len(block.Txs))
	for i, raw := range block.Txs {
		lines = append(lines, fmt.Sprintf("tx %d: %s", i, txAction(raw, decoder)))
	}
	return lines
}

// txAction returns the message path of a raw transaction, or a short
// problem description when it cannot be decoded.
func txAction(raw []byte, decoder msig.TxDecoder) string {
	tx, err := decoder(raw)
	if err != nil {
		return "undecodable transaction"
	}
	msg, err := tx.GetMsg()
	if err != nil {
		return "transaction without a message"
	}
	return msg.Path()
}

// openDb opens a goleveldb directory, eg. blockstore.db or abci.db.
func openDb(path string) (dbm.DB, error) {
	path = filepath.Clean(path)
	if filepath.Ext(path) != ".db" {
		return nil, errors.Wrapf(errors.ErrInput, "database directory must end with .db: %s", path)
	}
	dir, name := filepath.Split(path)
	name = strings.TrimSuffix(name, ".db")
	return dbm.NewGoLevelDB(name, dir)
}
