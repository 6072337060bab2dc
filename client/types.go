package client

import (
	cmn "github.com/tendermint/tendermint/libs/common"
	tmtypes "github.com/tendermint/tendermint/types"
)

// TransactionID is the hash used to identify the transaction
type TransactionID = cmn.HexBytes

// GenesisDoc is the full tendermint genesis file
type GenesisDoc = tmtypes.GenesisDoc

// CommitResult is returned once a transaction was included in a block.
type CommitResult struct {
	ID     TransactionID
	Height int64
}
