package escrow_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/store/iavl"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/system"
	"github.com/iov-one/ledger/x/token"
)

const chainID = "escrow-test"

// market is a chain with two tokens, X and Y. The initializer owns 500 X and
// wants 1000 Y for them, the taker owns 1000 Y.
type market struct {
	runtime *app.Runtime

	initializer, taker, custody, record crypto.PrivateKeyEd25519

	mintX, mintY   ledger.Address
	initializerX   ledger.Address
	initializerY   ledger.Address
	takerX, takerY ledger.Address
	authority      ledger.Address
	nonce          uint64
}

func newMarket(t *testing.T) *market {
	t.Helper()
	m := &market{
		initializer:  ledgertest.NewKey(),
		taker:        ledgertest.NewKey(),
		custody:      ledgertest.NewKey(),
		record:       ledgertest.NewKey(),
		mintX:        ledgertest.SequenceAddress(10),
		mintY:        ledgertest.SequenceAddress(11),
		initializerX: ledgertest.SequenceAddress(12),
		initializerY: ledgertest.SequenceAddress(13),
		takerX:       ledgertest.SequenceAddress(14),
		takerY:       ledgertest.SequenceAddress(15),
	}
	var err error
	m.authority, _, err = escrow.NewSeedAuthority(escrow.DefaultSeed).Derive(escrow.ProgramID)
	require.NoError(t, err)

	router := app.NewRouter()
	system.RegisterProgram(router)
	token.RegisterProgram(router, token.ProgramID)
	escrow.RegisterProgram(router, escrow.ProgramID, escrow.DefaultConfiguration())

	m.runtime, err = app.NewRuntime(iavl.MockCommitStore(), router)
	require.NoError(t, err)

	const lamports = 10000000
	type tokenAccount struct {
		Address  ledger.Address `json:"address"`
		Lamports uint64         `json:"lamports"`
		Mint     ledger.Address `json:"mint"`
		Owner    ledger.Address `json:"owner"`
		Amount   uint64         `json:"amount"`
	}
	genesis := map[string]interface{}{
		"accounts": []app.GenesisAccount{
			{Address: m.initializer.Address(), Lamports: 10000000000},
			{Address: m.taker.Address(), Lamports: 10000000000},
		},
		"token": map[string]interface{}{
			"mints": []map[string]interface{}{
				{"address": m.mintX, "lamports": lamports, "decimals": 0},
				{"address": m.mintY, "lamports": lamports, "decimals": 0},
			},
			"accounts": []tokenAccount{
				{Address: m.initializerX, Lamports: lamports, Mint: m.mintX, Owner: m.initializer.Address(), Amount: 500},
				{Address: m.initializerY, Lamports: lamports, Mint: m.mintY, Owner: m.initializer.Address(), Amount: 0},
				{Address: m.takerX, Lamports: lamports, Mint: m.mintX, Owner: m.taker.Address(), Amount: 0},
				{Address: m.takerY, Lamports: lamports, Mint: m.mintY, Owner: m.taker.Address(), Amount: 1000},
			},
		},
	}
	appState, err := json.Marshal(genesis)
	require.NoError(t, err)
	init := ledger.ChainInitializers(app.Initializer{}, &token.Initializer{}, escrow.Initializer{})
	require.NoError(t, m.runtime.InitChain(chainID, appState, init))
	return m
}

func (m *market) execute(t *testing.T, ixs []ledger.Instruction, signers ...crypto.PrivateKeyEd25519) error {
	t.Helper()
	m.nonce++
	tx := &app.Tx{Nonce: m.nonce, Instructions: ixs}
	for _, s := range signers {
		require.NoError(t, tx.Sign(chainID, s))
	}
	return m.runtime.Execute(context.Background(), tx)
}

func (m *market) offer(t *testing.T) error {
	t.Helper()
	ixs := escrow.NewTradeInstructions(escrow.TradeParams{
		ProgramID:      escrow.ProgramID,
		TokenProgram:   token.ProgramID,
		Rent:           ledger.DefaultRent(),
		Initializer:    m.initializer.Address(),
		Custody:        m.custody.Address(),
		Record:         m.record.Address(),
		Mint:           m.mintX,
		Sending:        m.initializerX,
		Deposit:        500,
		Receiving:      m.initializerY,
		ExpectedAmount: 1000,
	})
	return m.execute(t, ixs, m.initializer, m.custody, m.record)
}

func (m *market) take(t *testing.T, amount uint64) error {
	t.Helper()
	ix := escrow.NewExchangeInstruction(escrow.ExchangeParams{
		ProgramID:            escrow.ProgramID,
		TokenProgram:         token.ProgramID,
		Authority:            m.authority,
		Taker:                m.taker.Address(),
		TakerSending:         m.takerY,
		TakerReceiving:       m.takerX,
		Custody:              m.custody.Address(),
		Initializer:          m.initializer.Address(),
		InitializerReceiving: m.initializerY,
		Record:               m.record.Address(),
		Amount:               amount,
	})
	return m.execute(t, []ledger.Instruction{ix}, m.taker)
}

func (m *market) account(t *testing.T, addr ledger.Address) *ledger.Account {
	t.Helper()
	acct, err := m.runtime.Account(addr)
	require.NoError(t, err)
	return acct
}

func (m *market) tokens(t *testing.T, addr ledger.Address) uint64 {
	t.Helper()
	acct := m.account(t, addr)
	require.NotNil(t, acct, "token account %s", addr)
	state, err := token.UnpackAccount(acct.Data)
	require.NoError(t, err)
	return state.Amount
}

func TestTrade(t *testing.T) {
	m := newMarket(t)

	require.NoError(t, m.offer(t))

	rec := m.account(t, m.record.Address())
	require.NotNil(t, rec)
	assert.Equal(t, escrow.ProgramID, rec.Owner)
	state, err := escrow.Unpack(rec.Data)
	require.NoError(t, err)
	assert.Equal(t, &escrow.EscrowRecord{
		IsInitialized:  true,
		Initializer:    m.initializer.Address(),
		Custody:        m.custody.Address(),
		Receiving:      m.initializerY,
		ExpectedAmount: 1000,
	}, state)

	custody := m.account(t, m.custody.Address())
	require.NotNil(t, custody)
	held, err := token.UnpackAccount(custody.Data)
	require.NoError(t, err)
	assert.Equal(t, m.authority, held.Owner)
	assert.Equal(t, uint64(500), held.Amount)
	assert.Equal(t, uint64(0), m.tokens(t, m.initializerX))

	before := m.account(t, m.initializer.Address()).Lamports
	reclaimed := custody.Lamports + rec.Lamports

	require.NoError(t, m.take(t, 500))

	assert.Equal(t, uint64(500), m.tokens(t, m.takerX))
	assert.Equal(t, uint64(0), m.tokens(t, m.takerY))
	assert.Equal(t, uint64(1000), m.tokens(t, m.initializerY))
	assert.Nil(t, m.account(t, m.custody.Address()), "custody account must be closed")
	assert.Nil(t, m.account(t, m.record.Address()), "escrow record must be purged")
	assert.Equal(t, before+reclaimed, m.account(t, m.initializer.Address()).Lamports)

	// Settled trades cannot be taken again.
	err = m.take(t, 500)
	assert.True(t, errors.ErrIncorrectProgramID.Is(err), "unexpected error: %+v", err)
	assert.Equal(t, uint64(500), m.tokens(t, m.takerX))

	id, err := m.runtime.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
}

func TestFailedExchangeIsRolledBack(t *testing.T) {
	m := newMarket(t)
	require.NoError(t, m.offer(t))

	cases := map[string]struct {
		amount  uint64
		wantErr *errors.Error
	}{
		"taker expects less": {amount: 499, wantErr: escrow.ErrExpectedAmountMismatch},
		"taker expects more": {amount: 501, wantErr: escrow.ErrExpectedAmountMismatch},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := m.take(t, tc.amount)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.Equal(t, uint64(1000), m.tokens(t, m.takerY))
			assert.Equal(t, uint64(0), m.tokens(t, m.takerX))
			assert.Equal(t, uint64(500), m.tokens(t, m.custody.Address()))
			assert.NotNil(t, m.account(t, m.record.Address()))
		})
	}

	// The trade is still open.
	require.NoError(t, m.take(t, 500))
	assert.Equal(t, uint64(1000), m.tokens(t, m.initializerY))
}

func TestTakerWithoutFunds(t *testing.T) {
	m := newMarket(t)
	require.NoError(t, m.offer(t))

	// Move the taker's Y away so that the payment fails within the
	// exchange, after the escrow program already started settling.
	drain := token.NewTransferInstruction(token.ProgramID, m.takerY, m.initializerY, m.taker.Address(), 1)
	require.NoError(t, m.execute(t, []ledger.Instruction{drain}, m.taker))

	err := m.take(t, 500)
	assert.True(t, errors.ErrInsufficientFunds.Is(err), "unexpected error: %+v", err)
	assert.Equal(t, uint64(999), m.tokens(t, m.takerY))
	assert.Equal(t, uint64(1), m.tokens(t, m.initializerY))
	assert.Equal(t, uint64(500), m.tokens(t, m.custody.Address()))
	assert.Equal(t, uint64(0), m.tokens(t, m.takerX))
}

func TestOfferRequiresAllSignatures(t *testing.T) {
	m := newMarket(t)

	ixs := escrow.NewTradeInstructions(escrow.TradeParams{
		ProgramID:      escrow.ProgramID,
		TokenProgram:   token.ProgramID,
		Rent:           ledger.DefaultRent(),
		Initializer:    m.initializer.Address(),
		Custody:        m.custody.Address(),
		Record:         m.record.Address(),
		Mint:           m.mintX,
		Sending:        m.initializerX,
		Deposit:        500,
		Receiving:      m.initializerY,
		ExpectedAmount: 1000,
	})
	err := m.execute(t, ixs, m.initializer, m.custody)
	assert.True(t, errors.ErrMissingRequiredSignature.Is(err), "unexpected error: %+v", err)
	assert.Nil(t, m.account(t, m.custody.Address()), "partial offer must not be persisted")
	assert.Equal(t, uint64(500), m.tokens(t, m.initializerX))
}
