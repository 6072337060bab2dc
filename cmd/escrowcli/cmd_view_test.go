package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/token"
)

func TestCmdTransactionView(t *testing.T) {
	tx := &app.Tx{
		Nonce: 7,
		Instructions: escrow.NewTradeInstructions(escrow.TradeParams{
			ProgramID:      escrow.ProgramID,
			TokenProgram:   token.ProgramID,
			Rent:           ledger.DefaultRent(),
			Initializer:    ledgertest.SequenceAddress(1),
			Custody:        ledgertest.SequenceAddress(2),
			Record:         ledgertest.SequenceAddress(3),
			Mint:           ledgertest.SequenceAddress(4),
			Sending:        ledgertest.SequenceAddress(5),
			Deposit:        100,
			Receiving:      ledgertest.SequenceAddress(6),
			ExpectedAmount: 42,
		}),
	}
	tx.Instructions = append(tx.Instructions, ledger.Instruction{
		ProgramID: ledgertest.SequenceAddress(9),
		Data:      []byte{1, 2, 3},
	})
	var input bytes.Buffer
	assert.Nil(t, writeTx(&input, tx))

	var view txView
	assert.Nil(t, json.Unmarshal(run(t, cmdTransactionView, input.Bytes()), &view))
	assert.Equal(t, uint64(7), view.Nonce)

	wantTypes := []string{"create_account", "initialize_account", "transfer", "create_account", "initialize", ""}
	if len(view.Instructions) != len(wantTypes) {
		t.Fatalf("want %d instructions, got %d", len(wantTypes), len(view.Instructions))
	}
	for i, want := range wantTypes {
		var got string
		if d := view.Instructions[i].Decoded; d != nil {
			got, _ = d["type"].(string)
		}
		assert.Equal(t, want, got)
	}
	assert.Equal(t, "010203", view.Instructions[5].Data)
	// Amounts are decoded as JSON numbers.
	assert.Equal(t, float64(42), view.Instructions[4].Decoded["amount"])
	assert.Equal(t, true, view.Instructions[4].Accounts[0].Signer)
}

func TestCmdTransactionViewInvalidInput(t *testing.T) {
	cases := map[string][]byte{
		"empty":           nil,
		"not json":        []byte("transaction"),
		"not transaction": []byte(`[1, 2]`),
	}
	for testName, input := range cases {
		t.Run(testName, func(t *testing.T) {
			var output bytes.Buffer
			if err := cmdTransactionView(bytes.NewReader(input), &output, nil); err == nil {
				t.Fatal("want error")
			}
		})
	}
}
