package main

import (
	"flag"
	"fmt"
	"io"
)

func cmdSubmitTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read a serialized transaction from standard input and submit it. This command
waits until the transaction is included in a block and prints its hash and the
block height.

Make sure to collect enough signatures before submitting the transaction.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(), tmAddrUsage)
	)
	fl.Parse(args)

	tx, err := readTx(input)
	if err != nil {
		return err
	}
	res, err := newClient(*tmAddrFl).BroadcastTx(tx)
	if err != nil {
		return fmt.Errorf("cannot broadcast transaction: %s", err)
	}
	_, err = fmt.Fprintf(output, "%X %d\n", []byte(res.ID), res.Height)
	return err
}
