package escrow

import (
	"encoding/json"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/gconf"
	"github.com/iov-one/ledger/x/token"
)

// confPackage is the name the configuration is stored under.
const confPackage = "escrow"

// DefaultSeed is the seed the custody authority is derived from unless
// configured otherwise.
const DefaultSeed = "escrow"

// Configuration of the escrow program.
type Configuration struct {
	// Seed the custody authority is derived from.
	Seed string `json:"seed"`
	// TokenProgram is the only token program custody accounts may be
	// owned by.
	TokenProgram ledger.Address `json:"token_program"`
}

var _ gconf.Configuration = (*Configuration)(nil)

// DefaultConfiguration returns the configuration used when none is stored.
func DefaultConfiguration() Configuration {
	return Configuration{
		Seed:         DefaultSeed,
		TokenProgram: token.ProgramID,
	}
}

func (c *Configuration) Validate() error {
	if len(c.Seed) == 0 {
		return errors.Wrap(errors.ErrEmpty, "seed")
	}
	if len(c.Seed) > ledger.MaxSeedLength {
		return errors.Wrapf(errors.ErrMaxSeedLengthExceeded, "seed of %d bytes", len(c.Seed))
	}
	if err := c.TokenProgram.Validate(); err != nil {
		return errors.Wrap(err, "token program")
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	if err := json.Unmarshal(raw, c); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// LoadConfiguration returns the stored configuration, or the default one if
// none was stored.
func LoadConfiguration(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, confPackage, &conf); {
	case err == nil:
		return conf, nil
	case errors.ErrNotFound.Is(err):
		return DefaultConfiguration(), nil
	default:
		return conf, err
	}
}

// ConfigurationFromGenesis returns the configuration declared in the genesis
// "conf" section, or the default one if none is declared.
func ConfigurationFromGenesis(opts ledger.Options) (Configuration, error) {
	var confOptions ledger.Options
	if err := opts.ReadOptions("conf", &confOptions); err != nil {
		return Configuration{}, errors.Wrap(errors.ErrInput, err.Error())
	}
	if confOptions[confPackage] == nil {
		return DefaultConfiguration(), nil
	}
	var conf Configuration
	if err := confOptions.ReadOptions(confPackage, &conf); err != nil {
		return conf, errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := conf.Validate(); err != nil {
		return conf, err
	}
	return conf, nil
}

// Initializer stores the escrow configuration from the genesis "conf"
// section. A missing section leaves the default configuration in place.
type Initializer struct{}

var _ ledger.Initializer = Initializer{}

func (Initializer) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	var conf Configuration
	err := gconf.InitConfig(db, opts, confPackage, &conf)
	if errors.ErrNotFound.Is(err) {
		return nil
	}
	return err
}
