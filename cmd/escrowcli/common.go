package main

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"time"

	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/client"
)

// readTx deserializes a single transaction that takes all of the input.
func readTx(r io.Reader) (*app.Tx, error) {
	raw, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read transaction: %s", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("no input data")
	}
	var tx app.Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, fmt.Errorf("cannot deserialize transaction: %s", err)
	}
	return &tx, nil
}

func writeTx(w io.Writer, tx *app.Tx) error {
	raw, err := tx.Marshal()
	if err != nil {
		return fmt.Errorf("cannot serialize transaction: %s", err)
	}
	_, err = w.Write(raw)
	return err
}

// newTx returns a transaction with given nonce. A zero nonce is replaced by
// the current time, which is unique enough for a single user.
func newTx(nonce uint64) *app.Tx {
	if nonce == 0 {
		nonce = uint64(time.Now().UnixNano())
	}
	return &app.Tx{Nonce: nonce}
}

// newClient returns a client talking to the node at given address.
// Overwritten by tests.
var newClient = func(tmAddr string) *client.Client {
	return client.NewClient(client.NewHTTPConnection(tmAddr))
}

const tmAddrUsage = "Tendermint node address. You can use ESCROWCLI_TM_ADDR environment variable to set it."

func defaultTmAddr() string {
	return env("ESCROWCLI_TM_ADDR", "http://localhost:26657")
}
