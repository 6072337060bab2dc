package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
)

type MyConfig struct {
	Number int64          `json:"number"`
	Text   string         `json:"text"`
	Addr   ledger.Address `json:"addr"`
}

func (c *MyConfig) Validate() error {
	if c.Text == "" {
		return errors.Wrap(errors.ErrEmpty, "text")
	}
	return c.Addr.Validate()
}

func (c *MyConfig) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

func (c *MyConfig) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, c)
}

func TestSaveLoad(t *testing.T) {
	cases := map[string]struct {
		Conf        *MyConfig
		WantSaveErr *errors.Error
	}{
		"valid configuration": {
			Conf: &MyConfig{Number: 852151421, Text: "foobar", Addr: ledgertest.NewAddress()},
		},
		"invalid address cannot be saved": {
			Conf:        &MyConfig{Text: "foobar", Addr: ledger.Address("too short")},
			WantSaveErr: errors.ErrInput,
		},
		"empty text cannot be saved": {
			Conf:        &MyConfig{Addr: ledgertest.NewAddress()},
			WantSaveErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if err := Save(db, "mypkg", tc.Conf); !tc.WantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %s", err)
			}
			if tc.WantSaveErr != nil {
				return
			}

			var got MyConfig
			assert.Nil(t, Load(db, "mypkg", &got))
			assert.Equal(t, tc.Conf, &got)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	var conf MyConfig
	if err := Load(store.MemStore(), "mypkg", &conf); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInitConfig(t *testing.T) {
	addr := ledgertest.SequenceAddress(7)
	genesis := `{
		"conf": {
			"mypkg": {"number": 3, "text": "hello", "addr": "` + addr.String() + `"}
		}
	}`
	var opts ledger.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	assert.Nil(t, InitConfig(db, opts, "mypkg", &MyConfig{}))

	var got MyConfig
	assert.Nil(t, Load(db, "mypkg", &got))
	assert.Equal(t, MyConfig{Number: 3, Text: "hello", Addr: addr}, got)

	if err := InitConfig(db, opts, "otherpkg", &MyConfig{}); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error: %v", err)
	}
}
