package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// makeBase returns the base layer
//
// If you want to test a different kvstore implementation
// you can copy most of these tests and change makeBase.
// Once that passes, customize and extend as you wish
func makeBase() (store.CacheableKVStore, func()) {
	commit, close := makeCommitStore()
	return commit.Adapter(), close
}

func makeCommitStore() (CommitStore, func()) {
	tmpDir, err := ioutil.TempDir("", "iavl-adapter-")
	if err != nil {
		panic(err)
	}
	close := func() { os.RemoveAll(tmpDir) }
	commit := NewCommitStore(tmpDir, "base")
	return commit, close
}

func TestIavlStoreSuite(t *testing.T) {
	suite := store.NewTestSuite(makeBase)
	t.Run("get set", suite.GetSet)
	t.Run("cache conflicts", suite.CacheConflicts)
	t.Run("fuzz iterator", suite.FuzzIterator)
	t.Run("iterator with conflicts", suite.IteratorWithConflicts)
}

func TestCommitStoreVersions(t *testing.T) {
	db := dbm.NewMemDB()
	commit := NewCommitStoreFromDB(db)
	assert.Nil(t, commit.LoadLatestVersion())

	k, v := []byte("acct:alice"), []byte("balance")

	cache := commit.CacheWrap()
	assert.Nil(t, cache.Set(k, v))
	assert.Nil(t, cache.Write())

	// Written but not committed.
	got, err := commit.Get(k)
	assert.Nil(t, err)
	assert.Nil(t, got)

	id, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id.Version)
	if len(id.Hash) == 0 {
		t.Fatal("commit must produce a hash")
	}

	got, err = commit.Get(k)
	assert.Nil(t, err)
	assert.Equal(t, v, got)

	latest, err := commit.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, id, latest)

	// A discarded cache does not change the next version.
	cache = commit.CacheWrap()
	assert.Nil(t, cache.Delete(k))
	cache.Discard()
	id2, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), id2.Version)
	assert.Equal(t, id.Hash, id2.Hash)

	// State can be loaded from the same database.
	reloaded := NewCommitStoreFromDB(db)
	assert.Nil(t, reloaded.LoadLatestVersion())
	latest, err = reloaded.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, id2, latest)
	got, err = reloaded.Get(k)
	assert.Nil(t, err)
	assert.Equal(t, v, got)
}

func TestCommitStoreLoadVersion(t *testing.T) {
	db := dbm.NewMemDB()
	commit := NewCommitStoreFromDB(db)
	assert.Nil(t, commit.LoadLatestVersion())

	k := []byte("acct:alice")
	for _, v := range []string{"first", "second"} {
		cache := commit.CacheWrap()
		assert.Nil(t, cache.Set(k, []byte(v)))
		assert.Nil(t, cache.Write())
		_, err := commit.Commit()
		assert.Nil(t, err)
	}

	cases := map[string]struct {
		version int64
		want    []byte
		wantErr *errors.Error
	}{
		"first version":   {version: 1, want: []byte("first")},
		"latest version":  {version: 2, want: []byte("second")},
		"unknown version": {version: 7, wantErr: errors.ErrDatabase},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			reloaded := NewCommitStoreFromDB(db)
			if err := reloaded.LoadVersion(tc.version); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			got, err := reloaded.CacheWrap().Get(k)
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
