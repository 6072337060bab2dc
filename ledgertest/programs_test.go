package ledgertest

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest/assert"
)

func TestDecoratedProgram(t *testing.T) {
	ctx := context.Background()
	p := &Program{}
	d := &Decorator{}
	decorated := Decorate(p, d)

	assert.Nil(t, decorated.Process(ctx, ledger.Env{}, nil, []byte{1}))
	assert.Equal(t, 1, p.CallCount())
	assert.Equal(t, 1, d.CallCount())
	assert.Equal(t, []byte{1}, p.LastData)

	d.Err = errors.ErrHuman
	assert.IsErr(t, errors.ErrHuman, decorated.Process(ctx, ledger.Env{}, nil, nil))
	assert.Equal(t, 1, p.CallCount())
	assert.Equal(t, 2, d.CallCount())
}

func TestInvokerRecordsCalls(t *testing.T) {
	inv := &Invoker{}
	ix := ledger.Instruction{ProgramID: SequenceAddress(1)}
	seeds := [][][]byte{{[]byte("escrow"), {254}}}

	assert.Nil(t, inv.Invoke(context.Background(), ix, nil))
	assert.Nil(t, inv.InvokeSigned(context.Background(), ix, nil, seeds))
	assert.Equal(t, 2, len(inv.Calls))
	assert.Equal(t, seeds, inv.Calls[1].SignerSeeds)
}

func TestSequenceAddress(t *testing.T) {
	assert.Nil(t, SequenceAddress(1).Validate())
	if SequenceAddress(1).Equals(SequenceAddress(2)) {
		t.Fatal("sequence addresses must be unique")
	}
	rent := RentInfo(ledger.DefaultRent())
	got, err := ledger.RentFromAccountInfo(rent)
	assert.Nil(t, err)
	assert.Equal(t, ledger.DefaultRent(), got)
}
