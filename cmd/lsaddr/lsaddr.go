package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/iov-one/ledger"
	escrowd "github.com/iov-one/ledger/cmd/escrowd/app"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/token"
)

// deriver computes the program address for a seed.
type deriver struct {
	derive func(seed string) (ledger.Address, uint8, error)
	// defaults are used when no seed is given.
	defaults []string
}

var derivers = map[string]deriver{
	"mint": {
		derive: func(name string) (ledger.Address, uint8, error) {
			return ledger.FindProgramAddress(escrowd.MintSeeds(name), token.ProgramID)
		},
		defaults: escrowd.DevMints,
	},
	"authority": {
		derive: func(seed string) (ledger.Address, uint8, error) {
			return escrow.NewSeedAuthority(seed).Derive(escrow.ProgramID)
		},
		defaults: []string{escrow.DefaultSeed},
	},
}

func main() {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	headerFl := fl.Bool("header", true, "Display header")
	fl.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage:
	%s <kind> [seed...]

Print program derived addresses of selected kind.

Available kinds are: %s

Program derived addresses have no private key and are computed from seeds.
That means they can be precomputed. This knowledge is helpful when creating
a genesis file - you can create a reference to an address before it exist.

`, os.Args[0], deriverNames())
		fl.PrintDefaults()
	}
	fl.Parse(os.Args[1:])

	if fl.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Kind is required.")
		fmt.Fprintf(os.Stderr, "Available kinds: %s\n", deriverNames())
		os.Exit(2)
	}
	d, ok := derivers[fl.Arg(0)]
	if !ok {
		fmt.Fprintln(os.Stderr, "Unknown kind.")
		os.Exit(2)
	}
	seeds := fl.Args()[1:]
	if len(seeds) == 0 {
		seeds = d.defaults
	}

	if err := printAddresses(os.Stdout, d, *headerFl, seeds); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func deriverNames() string {
	var names []string
	for n := range derivers {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func printAddresses(out io.Writer, d deriver, header bool, seeds []string) error {
	w := tabwriter.NewWriter(out, 2, 0, 2, ' ', 0)
	defer w.Flush()

	if header {
		fmt.Fprintln(w, "seed\taddress\tbump")
	}
	for _, s := range seeds {
		a, bump, err := d.derive(s)
		if err != nil {
			return fmt.Errorf("seed %q: %s", s, err)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\n", s, a, bump)
	}
	return nil
}
