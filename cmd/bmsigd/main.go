package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	msig "github.com/cloudwalk/brlc-multisig"
	bmsig "github.com/cloudwalk/brlc-multisig/cmd/bmsigd/app"
	"github.com/cloudwalk/brlc-multisig/commands/server"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome = "home"
	varHome  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".bmsig")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("bmsigd")
	fmt.Println("          Multisig wallet node")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize app options in genesis file")
	fmt.Println("start     Run the abci server")
	fmt.Println("getblock  Extract a block from blockchain.db")
	fmt.Println("retry     Run last block again to ensure it produces same result")
	fmt.Println("validate  Dry run the genesis initialization")
	fmt.Println("version   Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.bmsig")`)
}

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "bmsig")

	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	var err error
	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(bmsig.GenInitOptions, logger, *varHome, rest)
	case "start":
		err = server.StartCmd(bmsig.GenerateApp, logger, *varHome, rest)
	case "getblock":
		err = server.GetBlockCmd(bmsig.TxDecoder, logger, *varHome, rest)
	case "retry":
		err = server.RetryCmd(bmsig.InlineApp, bmsig.TxDecoder, logger, *varHome, rest)
	case "validate":
		paths := rest
		if len(paths) == 0 {
			paths = []string{filepath.Join(*varHome, "config", "genesis.json")}
		}
		err = server.ValidateGenesis(bmsig.Initializers(), paths)
	case "version":
		fmt.Println(msig.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}
