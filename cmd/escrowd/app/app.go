/*
Package app links together all the various components
to construct the escrow ledger node.
*/
package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/commands/server"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store/iavl"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/system"
	"github.com/iov-one/ledger/x/token"
	"github.com/iov-one/ledger/x/utils"
)

// Name is reported by the ABCI Info call.
const Name = "escrowd"

// Chain returns the decorators every program is wrapped with.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
	)
}

// Router returns a router with the system, token and escrow programs
// registered under their well known addresses.
func Router(conf escrow.Configuration) *app.Router {
	r := app.NewRouter()
	reg := Chain().Registry(r)
	system.RegisterProgram(reg)
	token.RegisterProgram(reg, conf.TokenProgram)
	escrow.RegisterProgram(reg, escrow.ProgramID, conf)
	return r
}

// Initializers returns the genesis loaders of all programs. Token accounts
// are owned by the configured token program.
func Initializers(conf escrow.Configuration) ledger.Initializer {
	return ledger.ChainInitializers(
		app.Initializer{},
		&token.Initializer{ProgramID: conf.TokenProgram},
		escrow.Initializer{},
	)
}

// Application constructs the runtime on top of the store found at dbPath
// and wraps it into an ABCI application.
//
// The escrow configuration is read from the store. A chain that was not
// initialized yet uses the configuration declared by the genesis file at
// genesisPath, if there is one.
func Application(dbPath, genesisPath string, debug bool) (*app.ABCIApp, *app.Runtime, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return nil, nil, err
	}
	conf, err := configuration(kv, genesisPath)
	if err != nil {
		return nil, nil, err
	}
	runtime, err := app.NewRuntime(kv, Router(conf))
	if err != nil {
		return nil, nil, err
	}
	return app.NewABCIApp(Name, runtime, Initializers(conf), debug), runtime, nil
}

func configuration(kv ledger.CommitKVStore, genesisPath string) (escrow.Configuration, error) {
	if err := kv.LoadLatestVersion(); err != nil {
		return escrow.Configuration{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	id, err := kv.LatestVersion()
	if err != nil {
		return escrow.Configuration{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if id.Version > 0 || genesisPath == "" {
		return escrow.LoadConfiguration(kv)
	}
	if _, err := os.Stat(genesisPath); os.IsNotExist(err) {
		return escrow.DefaultConfiguration(), nil
	}
	gen, err := app.LoadGenesis(genesisPath)
	if err != nil {
		return escrow.Configuration{}, err
	}
	var opts ledger.Options
	if len(gen.AppState) > 0 {
		if err := json.Unmarshal(gen.AppState, &opts); err != nil {
			return escrow.Configuration{}, errors.Wrap(errors.ErrInput, err.Error())
		}
	}
	return escrow.ConfigurationFromGenesis(opts)
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(options *server.Options) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath, genesisPath string
	if options.Home != "" {
		dbPath = filepath.Join(options.Home, "escrow.db")
		genesisPath = server.GenesisPath(options.Home)
	}

	application, runtime, err := Application(dbPath, genesisPath, options.Debug)
	if err != nil {
		return nil, err
	}
	runtime.WithLogger(options.Logger)
	if options.Registerer != nil {
		metrics, err := app.NewMetrics(options.Registerer)
		if err != nil {
			return nil, errors.Wrap(errors.ErrState, err.Error())
		}
		runtime.WithMetrics(metrics)
	}
	return application, nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (ledger.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
