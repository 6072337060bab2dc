package escrow

import (
	"encoding/binary"
	"fmt"

	"github.com/iov-one/ledger/errors"
)

// InstructionType is the first byte of every escrow instruction.
type InstructionType uint8

const (
	// Initialize starts a trade. Amount is what the initializer expects to
	// receive.
	//
	// Accounts expected:
	//   0. [signer] initializer
	//   1. [writable] custody token account, owned by the initializer
	//   2. [] initializer token account receiving the payment
	//   3. [writable] escrow record, owned by the escrow program
	//   4. [] rent sysvar
	//   5. [] token program
	Initialize InstructionType = 0

	// Exchange settles a trade. Amount is what the taker expects to
	// receive and must match the custodied amount.
	//
	// Accounts expected:
	//   0. [signer] taker
	//   1. [writable] taker token account sending the payment
	//   2. [writable] taker token account receiving the custodied tokens
	//   3. [writable] custody token account
	//   4. [writable] initializer main account
	//   5. [writable] initializer token account receiving the payment
	//   6. [writable] escrow record
	//   7. [] token program
	//   8. [] derived authority
	Exchange InstructionType = 1
)

// InstructionLen is the size of every encoded escrow instruction.
const InstructionLen = 1 + 8

func (t InstructionType) String() string {
	switch t {
	case Initialize:
		return "initialize"
	case Exchange:
		return "exchange"
	}
	return fmt.Sprintf("InstructionType(%d)", uint8(t))
}

// Instruction is a decoded escrow instruction.
type Instruction struct {
	Type   InstructionType
	Amount uint64
}

// Marshal encodes the instruction as [tag][amount:8 LE].
func (ix Instruction) Marshal() ([]byte, error) {
	switch ix.Type {
	case Initialize, Exchange:
	default:
		return nil, errors.Wrapf(ErrInvalidInstruction, "type %d", ix.Type)
	}
	raw := make([]byte, InstructionLen)
	raw[0] = byte(ix.Type)
	binary.LittleEndian.PutUint64(raw[1:], ix.Amount)
	return raw, nil
}

// UnmarshalInstruction decodes instruction data. Only the exact encoding is
// accepted, trailing bytes are an error.
func UnmarshalInstruction(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return Instruction{}, errors.Wrap(ErrInvalidInstruction, "empty")
	}
	t := InstructionType(data[0])
	switch t {
	case Initialize, Exchange:
	default:
		return Instruction{}, errors.Wrapf(ErrInvalidInstruction, "unknown tag %d", data[0])
	}
	rest := data[1:]
	if len(rest) < 8 {
		return Instruction{}, errors.Wrapf(ErrInvalidInstruction, "amount of %d bytes", len(rest))
	}
	if len(rest) > 8 {
		return Instruction{}, errors.Wrapf(ErrInvalidInstruction, "%d trailing bytes", len(rest)-8)
	}
	return Instruction{
		Type:   t,
		Amount: binary.LittleEndian.Uint64(rest),
	}, nil
}
