package main

import (
	"flag"
	"fmt"
	"io"
)

func cmdSignTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Sign given transaction. This is decoding a transaction data from standard
input, adds a signature and writes back to standard output signed transaction
content.

Signatures are bound to the chain id. When no chain id is given, it is read
from the genesis of the node.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl  = fl.String("tm", defaultTmAddr(), tmAddrUsage)
		chainIDFl = fl.String("chain-id", env("ESCROWCLI_CHAIN_ID", ""),
			"Chain ID the transaction is signed for. You can use ESCROWCLI_CHAIN_ID environment variable to set it.")
		keyPathFl = fl.String("key", env("ESCROWCLI_PRIV_KEY", ""),
			"Path to the private key file that transaction should be signed with. You can use ESCROWCLI_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return fmt.Errorf("cannot load private key: %s", err)
	}
	tx, err := readTx(input)
	if err != nil {
		return err
	}

	chainID := *chainIDFl
	if chainID == "" {
		chainID, err = newClient(*tmAddrFl).ChainID()
		if err != nil {
			return fmt.Errorf("cannot fetch chain id: %s", err)
		}
	}
	if err := tx.Sign(chainID, key); err != nil {
		return fmt.Errorf("cannot sign transaction: %s", err)
	}
	return writeTx(output, tx)
}
