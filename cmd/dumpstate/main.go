package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iov-one/ledger"
	escrowd "github.com/iov-one/ledger/cmd/escrowd/app"
)

// versionLoader is implemented by stores that can load a past version.
type versionLoader interface {
	LoadVersion(int64) error
}

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Export the state of an escrowd database as genesis app_state. The output can be
used to start a new chain with all accounts, tokens and open trades preserved.`)
		flag.PrintDefaults()
	}
	var (
		dbFl = flag.String("db", env("ESCROWD_DB", filepath.Join(os.ExpandEnv("$HOME"), ".escrowd", "escrow.db")),
			"escrowd database path")
		heightFl = flag.Int64("height", 0,
			"commit height, latest if not given")
		outFl = flag.String("out", "-",
			"output file, standard output if -")
	)
	flag.Parse()

	if err := run(*dbFl, *heightFl, *outFl); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(dbPath string, height int64, out string) error {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("db file does not exists: %s", err)
	}
	kv, err := escrowd.CommitKVStore(dbPath)
	if err != nil {
		return fmt.Errorf("cannot initialize escrowd commit store: %s", err)
	}
	if err := loadVersion(kv, height); err != nil {
		return err
	}

	state, err := extractState(kv.CacheWrap())
	if err != nil {
		return fmt.Errorf("cannot extract state: %s", err)
	}

	var w io.Writer = os.Stdout
	if out != "-" {
		fd, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("cannot create output file: %s", err)
		}
		defer fd.Close()
		w = fd
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state); err != nil {
		return fmt.Errorf("cannot write state: %s", err)
	}
	return nil
}

func loadVersion(kv ledger.CommitKVStore, height int64) error {
	if height == 0 {
		if err := kv.LoadLatestVersion(); err != nil {
			return fmt.Errorf("cannot load latest version: %s", err)
		}
		return nil
	}
	vl, ok := kv.(versionLoader)
	if !ok {
		return fmt.Errorf("store cannot load past versions")
	}
	if err := vl.LoadVersion(height); err != nil {
		return fmt.Errorf("cannot load db version: %s", err)
	}
	return nil
}
