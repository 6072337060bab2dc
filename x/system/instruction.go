package system

import (
	"encoding/binary"
	"fmt"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// InstructionType is encoded as the first four bytes (little endian) of
// every system instruction.
type InstructionType uint32

const (
	CreateAccount InstructionType = 0
	Transfer      InstructionType = 2
)

func (t InstructionType) String() string {
	switch t {
	case CreateAccount:
		return "create_account"
	case Transfer:
		return "transfer"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(t))
	}
}

// MaxPermittedDataLength is the largest account that can be created.
const MaxPermittedDataLength = 10 * 1024 * 1024

const (
	createAccountLen = 4 + 8 + 8 + ledger.AddressLength
	transferLen      = 4 + 8
)

// Instruction is a decoded system instruction.
type Instruction struct {
	Type     InstructionType
	Lamports uint64
	// Space and Owner are used by CreateAccount only.
	Space uint64
	Owner ledger.Address
}

// Marshal encodes the instruction:
//   CreateAccount [0:4][lamports:8][space:8][owner:32]
//   Transfer      [2:4][lamports:8]
func (ix Instruction) Marshal() ([]byte, error) {
	switch ix.Type {
	case CreateAccount:
		if err := ix.Owner.Validate(); err != nil {
			return nil, errors.Wrap(err, "owner")
		}
		raw := make([]byte, createAccountLen)
		binary.LittleEndian.PutUint32(raw, uint32(ix.Type))
		binary.LittleEndian.PutUint64(raw[4:], ix.Lamports)
		binary.LittleEndian.PutUint64(raw[12:], ix.Space)
		copy(raw[20:], ix.Owner)
		return raw, nil
	case Transfer:
		raw := make([]byte, transferLen)
		binary.LittleEndian.PutUint32(raw, uint32(ix.Type))
		binary.LittleEndian.PutUint64(raw[4:], ix.Lamports)
		return raw, nil
	}
	return nil, errors.Wrapf(errors.ErrInvalidInstructionData, "type %d", ix.Type)
}

// UnmarshalInstruction decodes instruction data.
func UnmarshalInstruction(raw []byte) (Instruction, error) {
	if len(raw) < 4 {
		return Instruction{}, errors.Wrap(errors.ErrInvalidInstructionData, "missing type")
	}
	ix := Instruction{Type: InstructionType(binary.LittleEndian.Uint32(raw))}
	switch ix.Type {
	case CreateAccount:
		if len(raw) != createAccountLen {
			return ix, errors.Wrap(errors.ErrInvalidInstructionData, "create account size")
		}
		ix.Lamports = binary.LittleEndian.Uint64(raw[4:])
		ix.Space = binary.LittleEndian.Uint64(raw[12:])
		ix.Owner = append(ledger.Address(nil), raw[20:]...)
	case Transfer:
		if len(raw) != transferLen {
			return ix, errors.Wrap(errors.ErrInvalidInstructionData, "transfer size")
		}
		ix.Lamports = binary.LittleEndian.Uint64(raw[4:])
	default:
		return ix, errors.Wrapf(errors.ErrInvalidInstructionData, "unknown type %d", ix.Type)
	}
	return ix, nil
}

func build(ix Instruction, accounts ...ledger.AccountMeta) ledger.Instruction {
	data, err := ix.Marshal()
	if err != nil {
		panic(err)
	}
	return ledger.Instruction{
		ProgramID: ledger.SystemProgramID,
		Accounts:  accounts,
		Data:      data,
	}
}

// NewCreateAccountInstruction returns an instruction creating a new account
// of given size, assigned to the owner program and funded by the funder.
// Both the funder and the new account must sign.
func NewCreateAccountInstruction(funder, newAccount ledger.Address, lamports, space uint64, owner ledger.Address) ledger.Instruction {
	return build(
		Instruction{Type: CreateAccount, Lamports: lamports, Space: space, Owner: owner},
		ledger.NewAccountMeta(funder, true),
		ledger.NewAccountMeta(newAccount, true),
	)
}

// NewTransferInstruction returns an instruction moving lamports between
// two accounts.
func NewTransferInstruction(from, to ledger.Address, lamports uint64) ledger.Instruction {
	return build(
		Instruction{Type: Transfer, Lamports: lamports},
		ledger.NewAccountMeta(from, true),
		ledger.NewAccountMeta(to, false),
	)
}
