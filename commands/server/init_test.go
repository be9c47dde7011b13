package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
	"github.com/tendermint/tendermint/libs/log"
)

func writeGenesis(t *testing.T, home string, doc string) string {
	t.Helper()
	confDir := filepath.Join(home, "config")
	if err := os.MkdirAll(confDir, 0700); err != nil {
		t.Fatal(err)
	}
	genFile := filepath.Join(confDir, "genesis.json")
	if err := ioutil.WriteFile(genFile, []byte(doc), 0600); err != nil {
		t.Fatal(err)
	}
	return genFile
}

func TestInitCmd(t *testing.T) {
	home, err := ioutil.TempDir("", "bmsigd-init")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(home)

	genFile := writeGenesis(t, home, `{"chain_id": "test-chain-1"}`)

	gen := func(args []string) (json.RawMessage, error) {
		return json.RawMessage(`{"custom": {"answer": 42}}`), nil
	}
	if err := InitCmd(gen, log.NewNopLogger(), home, nil); err != nil {
		t.Fatalf("cannot init: %+v", err)
	}

	raw, err := ioutil.ReadFile(genFile)
	if err != nil {
		t.Fatal(err)
	}
	var doc GenesisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if string(doc["chain_id"]) != `"test-chain-1"` {
		t.Fatalf("chain id lost: %s", doc["chain_id"])
	}
	if len(doc["app_state"]) == 0 {
		t.Fatal("app_state not written")
	}
}

func TestInitCmdMissingGenesis(t *testing.T) {
	home, err := ioutil.TempDir("", "bmsigd-init")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(home)

	err = InitCmd(nil, log.NewNopLogger(), home, nil)
	if !errors.ErrNotFound.Is(err) {
		t.Fatalf("expected not found, got %+v", err)
	}
}

type genesisCheck struct {
	called bool
	err    error
}

func (c *genesisCheck) FromGenesis(opts msig.Options, kv msig.KVStore) error {
	c.called = true
	return c.err
}

func TestValidateGenesis(t *testing.T) {
	home, err := ioutil.TempDir("", "bmsigd-validate")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(home)

	genFile := writeGenesis(t, home,
		`{"chain_id": "test-chain-1", "app_state": {"wallet": []}}`)

	check := &genesisCheck{}
	if err := ValidateGenesis(check, []string{genFile}); err != nil {
		t.Fatalf("cannot validate: %+v", err)
	}
	if !check.called {
		t.Fatal("initializer not called")
	}

	check = &genesisCheck{err: errors.ErrInput}
	if err := ValidateGenesis(check, []string{genFile}); !errors.ErrInput.Is(err) {
		t.Fatalf("expected input error, got %+v", err)
	}
}
