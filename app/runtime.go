package app

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// processedTxKey prefixes the sign bytes of every executed transaction.
const processedTxKey = "_ldg:tx:"

// Runtime executes transactions against the account ledger.
//
// Every transaction is atomic. All instructions are executed on a cache
// wrap that is written only if every instruction succeeded and discarded
// otherwise. Execution is serialized, accounts are never observed half
// applied.
type Runtime struct {
	mu sync.Mutex

	store   *CommitStore
	router  *Router
	bucket  orm.AccountBucket
	logger  log.Logger
	metrics *Metrics

	// chainID is loaded from the database or set by InitChain.
	chainID string
}

// NewRuntime loads the latest state of the store. Programs are looked up in
// the router.
func NewRuntime(store ledger.CommitKVStore, router *Router) (*Runtime, error) {
	cs, err := NewCommitStore(store)
	if err != nil {
		return nil, err
	}
	chainID, err := loadChainID(cs.DeliverStore())
	if err != nil {
		return nil, err
	}
	return &Runtime{
		store:   cs,
		router:  router,
		bucket:  orm.NewAccountBucket(),
		logger:  log.NewNopLogger(),
		chainID: chainID,
	}, nil
}

// WithLogger sets the logger on the Runtime and returns it,
// to make it easy to chain in initialization
func (r *Runtime) WithLogger(logger log.Logger) *Runtime {
	r.logger = logger
	return r
}

// WithMetrics sets the collector execution results are recorded with.
func (r *Runtime) WithMetrics(m *Metrics) *Runtime {
	r.metrics = m
	return r
}

// ChainID returns the chain id, empty before InitChain.
func (r *Runtime) ChainID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chainID
}

// InitChain stores the chain id and loads the genesis state. It is called
// once in the lifetime of a chain.
func (r *Runtime) InitChain(chainID string, appState []byte, init ledger.Initializer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.chainID != "" {
		return errors.Wrapf(errors.ErrState, "app state previously loaded for chain %s", r.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app state not set in genesis")
	}
	var opts ledger.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	cache := r.store.DeliverStore().CacheWrap()
	if err := saveChainID(cache, chainID); err != nil {
		cache.Discard()
		return err
	}
	if err := init.FromGenesis(opts, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "genesis")
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	r.store.resetCheck()
	r.chainID = chainID
	r.logger.Info("chain initialized", "chain_id", chainID)
	return nil
}

// Execute runs all instructions of the transaction. Either all changes are
// applied or, if an error is returned, none of them.
func (r *Runtime) Execute(ctx ledger.Context, tx *Tx) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	err := r.execute(ctx, r.store.DeliverStore(), tx)
	r.metrics.observeTx(err, time.Since(start).Seconds())
	if err != nil {
		r.logger.Info("tx failed", "nonce", tx.Nonce, "err", err)
	} else {
		r.logger.Debug("tx executed", "nonce", tx.Nonce, "instructions", len(tx.Instructions))
	}
	return err
}

// Check runs the transaction against the check state, that is the last
// commit together with all transactions checked since. Delivered but not
// yet committed transactions are not visible. A successful transaction is
// kept in the check state until the next Commit, so that it cannot be
// checked twice.
func (r *Runtime) Check(ctx ledger.Context, tx *Tx) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.execute(ctx, r.store.CheckStore(), tx)
}

// Simulate runs the transaction exactly as Execute does, but always discards
// the changes.
func (r *Runtime) Simulate(ctx ledger.Context, tx *Tx) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	scratch := r.store.DeliverStore().CacheWrap()
	defer scratch.Discard()
	return r.execute(ctx, scratch, tx)
}

func (r *Runtime) execute(ctx ledger.Context, db ledger.CacheableKVStore, tx *Tx) error {
	if r.chainID == "" {
		return errors.Wrap(errors.ErrState, "chain not initialized")
	}
	if err := tx.Validate(); err != nil {
		return err
	}
	signers, err := tx.VerifySignatures(r.chainID)
	if err != nil {
		return err
	}
	signBytes, err := tx.SignBytes(r.chainID)
	if err != nil {
		return err
	}
	txKey := append([]byte(processedTxKey), signBytes...)
	switch seen, err := db.Has(txKey); {
	case err != nil:
		return errors.Wrap(errors.ErrDatabase, err.Error())
	case seen:
		return ErrDuplicateTx
	}

	ctx = ledger.WithChainID(ctx, r.chainID)
	ctx = ledger.WithLogger(ctx, r.logger)

	cache := db.CacheWrap()
	exec := newExecution(r.router, cache, signers)
	for i, ix := range tx.Instructions {
		ixCtx := ledger.WithLogInfo(ctx, "instruction", i, "program", ix.ProgramID)
		err := r.instruction(ixCtx, exec, ix)
		r.metrics.observeInstruction(ix.ProgramID, err)
		if err != nil {
			cache.Discard()
			return errors.Wrapf(err, "instruction %d", i)
		}
	}
	if err := exec.persist(); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Set(txKey, []byte{1}); err != nil {
		cache.Discard()
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func (r *Runtime) instruction(ctx ledger.Context, exec *execution, ix ledger.Instruction) (err error) {
	defer errors.Recover(&err)
	infos, err := exec.resolve(ix)
	if err != nil {
		return err
	}
	return exec.call(ctx, ix.ProgramID, infos, ix.Data)
}

// Account returns the current state of an account, including changes of
// executed but not yet committed transactions. Nil is returned if the
// account does not exist.
func (r *Runtime) Account(addr ledger.Address) (*ledger.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bucket.GetAccount(r.store.DeliverStore(), addr)
}

// Commit persists all executed transactions as a new version.
func (r *Runtime) Commit() (ledger.CommitID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.store.Commit()
	if err != nil {
		return id, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	r.logger.Debug("commit synced", "version", id.Version, "hash", id.Hash)
	return id, nil
}

// CommitInfo returns the last committed version.
func (r *Runtime) CommitInfo() (ledger.CommitID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.CommitInfo()
}
