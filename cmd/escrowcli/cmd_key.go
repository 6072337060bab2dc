package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/iov-one/ledger/crypto"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with JSON content containing the private key seed
is created and the address of the key is printed. This command fails if the
private key file already exists.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", env("ESCROWCLI_PRIV_KEY", os.Getenv("HOME")+"/.escrowcli.priv.key"),
			"Path to the private key file. You can use ESCROWCLI_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Do not allow to overwrite already existing private key. User
		// must manually delete it first to ensure we do not delete
		// such crucial data by an accident (bad command usage).
		return fmt.Errorf("private key file %q already exists, delete this file and try again", *keyPathFl)
	}

	key := crypto.GenPrivKeyEd25519()
	raw, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("cannot serialize private key: %s", err)
	}

	fd, err := os.OpenFile(*keyPathFl, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("cannot create private key file: %s", err)
	}
	defer fd.Close()

	if _, err := fd.Write(raw); err != nil {
		return fmt.Errorf("cannot write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("cannot close private key file: %s", err)
	}
	_, err = fmt.Fprintln(output, key.Address())
	return err
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the address associated with your private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", env("ESCROWCLI_PRIV_KEY", os.Getenv("HOME")+"/.escrowcli.priv.key"),
			"Path to the private key file. You can use ESCROWCLI_PRIV_KEY environment variable to set it.")
		bech32Fl = fl.String("bech32", "", "Print the address bech32 encoded with given human readable part.")
	)
	fl.Parse(args)

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return err
	}
	if *bech32Fl == "" {
		_, err = fmt.Fprintln(output, key.Address())
		return err
	}
	enc, err := key.Address().Bech32(*bech32Fl)
	if err != nil {
		return fmt.Errorf("cannot encode address: %s", err)
	}
	_, err = fmt.Fprintln(output, enc)
	return err
}

func loadKey(path string) (crypto.PrivateKeyEd25519, error) {
	if path == "" {
		return nil, errors.New("private key is required")
	}
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read private key file: %s", err)
	}
	var key crypto.PrivateKeyEd25519
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, fmt.Errorf("cannot decode private key: %s", err)
	}
	return key, nil
}
