package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iov-one/ledger"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *ledger.Address {
	var a ledger.Address
	if defaultVal != "" {
		var err error
		a, err = ledger.ParseAddress(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q ledger.Address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var((*flagaddr)(&a), name, usage)
	return &a
}

type flagaddr ledger.Address

func (a flagaddr) String() string {
	if len(a) == 0 {
		return ""
	}
	return ledger.Address(a).String()
}

func (a *flagaddr) Set(raw string) error {
	val, err := ledger.ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = flagaddr(val)
	return nil
}

// required returns an error naming the first flag that was not set.
func required(addrs map[string]*ledger.Address) error {
	for name, a := range addrs {
		if len(*a) == 0 {
			return fmt.Errorf("-%s is required", name)
		}
	}
	return nil
}
