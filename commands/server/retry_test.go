package server

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tendermint/iavl"
	abci "github.com/tendermint/tendermint/abci/types"
	dbm "github.com/tendermint/tendermint/libs/db"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/types"

	bmsig "github.com/cloudwalk/brlc-multisig/cmd/bmsigd/app"
	"github.com/cloudwalk/brlc-multisig/crypto"
	"github.com/cloudwalk/brlc-multisig/errors"
	"github.com/cloudwalk/brlc-multisig/orm"
	iavlstore "github.com/cloudwalk/brlc-multisig/store/iavl"
	"github.com/cloudwalk/brlc-multisig/x/funds"
	"github.com/cloudwalk/brlc-multisig/x/sigs"
	"github.com/cloudwalk/brlc-multisig/x/wallet"
)

const retryChainID = "test-retry-chain"

// commitTwoBlocks runs the wallet application over a disk backed store in
// the given directory: genesis with one funded owner, an empty first
// block and a second block carrying one signed transfer. It returns the
// raw transaction of the second block, the app hashes before and after
// it, and the block time of the second block. The database is closed
// before returning so the retry command can open it again.
func commitTwoBlocks(t *testing.T, home string) (tx, parentHash, wantHash []byte, blockTime time.Time) {
	t.Helper()

	db, err := dbm.NewGoLevelDB("abci", home)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	tree := iavl.NewMutableTree(db, iavlstore.DefaultCacheSize)
	app := bmsig.InlineApp(iavlstore.NewCommitStoreFromTree(tree), log.NewNopLogger(), true)

	pk := crypto.GenPrivKeyEd25519()
	addr := pk.PublicKey().Condition().Address()
	appState := fmt.Sprintf(`{
		"funds": [{"address": "%s", "amount": 10000}],
		"wallet": [{"owners": ["%s"], "quorum": 1, "cooldown_time": 0, "expiration_time": 86400}]
	}`, addr, addr)
	app.InitChain(abci.RequestInitChain{
		ChainId:       retryChainID,
		AppStateBytes: []byte(appState),
	})

	first := time.Unix(1600000000, 0).UTC()
	app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{
		ChainID: retryChainID, Height: 1, Time: first,
	}})
	app.EndBlock(abci.RequestEndBlock{})
	parentHash = app.Commit().Data

	rcpt := crypto.GenPrivKeyEd25519().PublicKey().Condition().Address()
	env := &bmsig.Tx{Msg: &funds.SendMsg{
		Source:      addr,
		Destination: rcpt,
		Amount:      1200,
	}}
	sig, err := sigs.SignTx(pk, env, retryChainID, 0)
	if err != nil {
		t.Fatal(err)
	}
	env.Signatures = []*sigs.StdSignature{sig}
	tx, err = env.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	blockTime = first.Add(time.Minute)
	app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{
		ChainID: retryChainID, Height: 2, Time: blockTime,
	}})
	if res := app.DeliverTx(tx); res.Code != 0 {
		t.Fatalf("cannot deliver: %s", res.Log)
	}
	app.EndBlock(abci.RequestEndBlock{})
	wantHash = app.Commit().Data
	return tx, parentHash, wantHash, blockTime
}

func writeBlock(t *testing.T, home string, block *types.Block) string {
	t.Helper()
	raw, err := cdc.MarshalJSON(block)
	if err != nil {
		t.Fatal(err)
	}
	blockPath := filepath.Join(home, "block.json")
	if err := ioutil.WriteFile(blockPath, raw, 0600); err != nil {
		t.Fatal(err)
	}
	return blockPath
}

func TestRetryCmd(t *testing.T) {
	home, err := ioutil.TempDir("", "bmsigd-retry")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(home)

	tx, parentHash, _, blockTime := commitTwoBlocks(t, home)

	blockPath := writeBlock(t, home, &types.Block{
		Header: types.Header{
			ChainID:  retryChainID,
			Height:   2,
			Time:     blockTime,
			NumTxs:   1,
			TotalTxs: 1,
			AppHash:  parentHash,
		},
		Data: types.Data{Txs: types.Txs{tx}},
	})

	dbPath := filepath.Join(home, "abci.db")
	args := []string{dbPath, blockPath}
	if err := RetryCmd(bmsig.InlineApp, bmsig.TxDecoder, log.NewNopLogger(), home, args); err != nil {
		t.Fatalf("replay is not deterministic: %+v", err)
	}
}

func TestRetryCmdRejectsForeignBlock(t *testing.T) {
	home, err := ioutil.TempDir("", "bmsigd-retry")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(home)

	tx, _, _, blockTime := commitTwoBlocks(t, home)

	// the header claims a parent app hash this state never had
	blockPath := writeBlock(t, home, &types.Block{
		Header: types.Header{
			ChainID:  retryChainID,
			Height:   2,
			Time:     blockTime,
			NumTxs:   1,
			TotalTxs: 1,
			AppHash:  []byte("0000000000000000000000000000000000000000"),
		},
		Data: types.Data{Txs: types.Txs{tx}},
	})

	dbPath := filepath.Join(home, "abci.db")
	args := []string{dbPath, blockPath}
	err = RetryCmd(bmsig.InlineApp, bmsig.TxDecoder, log.NewNopLogger(), home, args)
	if !errors.ErrState.Is(err) {
		t.Fatalf("expected state mismatch, got %+v", err)
	}
}

func TestBlockSummary(t *testing.T) {
	env := &bmsig.Tx{Msg: &wallet.ApproveMsg{
		WalletID:      orm.EncodeSequence(1),
		TransactionID: 3,
	}}
	raw, err := env.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	block := &types.Block{Data: types.Data{Txs: types.Txs{raw, []byte("garbage")}}}
	lines := blockSummary(block, bmsig.TxDecoder)
	want := []string{
		"tx 0: wallet/approve",
		"tx 1: undecodable transaction",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: want %q, got %q", i, want[i], lines[i])
		}
	}
}
