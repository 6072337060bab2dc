package app

import (
	"context"
	"fmt"

	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// QueryAccountPath is the query path returning a serialized account. The
// query data is the account address.
const QueryAccountPath = "/account"

// ABCIApp exposes the Runtime as an abci.Application so that it can be run
// by a tendermint node.
//
// Errors on ABCI steps that do not take user input (InitChain, Commit) are
// handled as panics, there is no way to recover from them.
type ABCIApp struct {
	abci.BaseApplication

	name    string
	runtime *Runtime
	init    ledger.Initializer
	debug   bool
}

var _ abci.Application = (*ABCIApp)(nil)

// NewABCIApp returns an application executing transactions with given
// runtime. Genesis is loaded with init.
func NewABCIApp(name string, runtime *Runtime, init ledger.Initializer, debug bool) *ABCIApp {
	return &ABCIApp{
		name:    name,
		runtime: runtime,
		init:    init,
		debug:   debug,
	}
}

// Info implements abci.Application. It returns the version and hash of the
// last commit.
func (a *ABCIApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	id, err := a.runtime.CommitInfo()
	if err != nil {
		panic(err)
	}
	return abci.ResponseInfo{
		Data:             a.name,
		LastBlockHeight:  id.Version,
		LastBlockAppHash: id.Hash,
	}
}

// InitChain implements abci.Application.
func (a *ABCIApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := a.runtime.InitChain(req.ChainId, req.AppStateBytes, a.init); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// DeliverTx implements abci.Application.
func (a *ABCIApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	var tx Tx
	err := tx.Unmarshal(raw)
	if err == nil {
		err = a.runtime.Execute(context.Background(), &tx)
	}
	code, log := errors.Info(err, a.debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTx implements abci.Application. The transaction is executed on the
// check state, which is independent of the block being delivered and is
// never persisted.
func (a *ABCIApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	var tx Tx
	err := tx.Unmarshal(raw)
	if err == nil {
		err = a.runtime.Check(context.Background(), &tx)
	}
	code, log := errors.Info(err, a.debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

// Commit implements abci.Application.
func (a *ABCIApp) Commit() abci.ResponseCommit {
	id, err := a.runtime.Commit()
	if err != nil {
		panic(err)
	}
	return abci.ResponseCommit{Data: id.Hash}
}

// Query implements abci.Application. Only account queries are supported.
func (a *ABCIApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	if req.Path != QueryAccountPath {
		code, _ := errors.Info(errors.ErrInput, a.debug)
		return abci.ResponseQuery{Code: code, Log: fmt.Sprintf("unexpected query path: %v", req.Path)}
	}
	acct, err := a.runtime.Account(ledger.Address(req.Data))
	if err == nil && acct == nil {
		err = errors.Wrapf(errors.ErrNotFound, "account %s", ledger.Address(req.Data))
	}
	var value []byte
	if err == nil {
		value, err = acct.Marshal()
	}
	if err != nil {
		code, log := errors.Info(err, a.debug)
		return abci.ResponseQuery{Code: code, Log: log}
	}
	id, _ := a.runtime.CommitInfo()
	return abci.ResponseQuery{
		Key:    req.Data,
		Value:  value,
		Height: id.Version,
	}
}
