package client

import (
	cmn "github.com/tendermint/tendermint/libs/common"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/errors"
)

// Client is a tendermint client wrapped to provide simple access to the
// ledger accounts and to transaction submission.
type Client struct {
	conn Conn
}

// NewClient wraps a Client around an existing tendermint client connection.
func NewClient(conn Conn) *Client {
	return &Client{conn: conn}
}

// Genesis returns the genesis document of the chain.
func (c *Client) Genesis() (*GenesisDoc, error) {
	res, err := c.conn.Genesis()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "genesis: %s", err)
	}
	return res.Genesis, nil
}

// ChainID returns the id transactions must be signed for.
func (c *Client) ChainID() (string, error) {
	gen, err := c.Genesis()
	if err != nil {
		return "", err
	}
	return gen.ChainID, nil
}

// Account returns the committed state of an account. Nil is returned if
// the account does not exist.
func (c *Client) Account(addr ledger.Address) (*ledger.Account, error) {
	res, err := c.conn.ABCIQuery(app.QueryAccountPath, cmn.HexBytes(addr))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "query: %s", err)
	}
	if err := errors.FromCode(res.Response.Code, res.Response.Log); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, nil
		}
		return nil, err
	}
	var acct ledger.Account
	if err := acct.Unmarshal(res.Response.Value); err != nil {
		return nil, errors.Wrapf(err, "account %s", addr)
	}
	return &acct, nil
}

// Rent returns the rent declared by the rent sysvar.
func (c *Client) Rent() (ledger.Rent, error) {
	acct, err := c.Account(ledger.SysvarRentID)
	if err != nil {
		return ledger.Rent{}, err
	}
	if acct == nil {
		return ledger.DefaultRent(), nil
	}
	return ledger.UnmarshalRent(acct.Data)
}

// BroadcastTx submits the transaction and waits until it is included in a
// block. A transaction rejected by the node or failing on execution returns
// the execution error.
func (c *Client) BroadcastTx(tx *app.Tx) (*CommitResult, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal")
	}
	res, err := c.conn.BroadcastTxCommit(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "broadcast: %s", err)
	}
	if err := errors.FromCode(res.CheckTx.Code, res.CheckTx.Log); err != nil {
		return nil, errors.Wrap(err, "check")
	}
	if err := errors.FromCode(res.DeliverTx.Code, res.DeliverTx.Log); err != nil {
		return nil, errors.Wrap(err, "deliver")
	}
	return &CommitResult{ID: res.Hash, Height: res.Height}, nil
}
