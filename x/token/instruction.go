package token

import (
	"encoding/binary"
	"fmt"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// InstructionType is the first byte of every token instruction.
type InstructionType uint8

const (
	InitializeMint    InstructionType = 0
	InitializeAccount InstructionType = 1
	Transfer          InstructionType = 3
	SetAuthority      InstructionType = 6
	MintTo            InstructionType = 7
	CloseAccount      InstructionType = 9
)

func (t InstructionType) String() string {
	switch t {
	case InitializeMint:
		return "initialize_mint"
	case InitializeAccount:
		return "initialize_account"
	case Transfer:
		return "transfer"
	case SetAuthority:
		return "set_authority"
	case MintTo:
		return "mint_to"
	case CloseAccount:
		return "close_account"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// AuthorityType selects which authority SetAuthority changes.
type AuthorityType uint8

const (
	// MintTokens is the authority allowed to mint new tokens.
	MintTokens AuthorityType = 0
	// AccountOwner is the owner of a token account.
	AccountOwner AuthorityType = 2
)

// Instruction is a decoded token instruction. Only the fields relevant to
// the Type are set.
type Instruction struct {
	Type InstructionType
	// Amount of Transfer and MintTo.
	Amount uint64
	// Decimals of InitializeMint.
	Decimals uint8
	// AuthorityType of SetAuthority.
	AuthorityType AuthorityType
	// Authority is the mint authority of InitializeMint or the new
	// authority of SetAuthority. Nil removes the mint authority.
	Authority ledger.Address
}

// Marshal encodes the instruction:
//   InitializeMint    [0][decimals:1][mint_authority:32][freeze_authority option:1]
//   InitializeAccount [1]
//   Transfer          [3][amount:8 LE]
//   SetAuthority      [6][authority_type:1][new_authority option:1][new_authority:32]
//   MintTo            [7][amount:8 LE]
//   CloseAccount      [9]
func (ix Instruction) Marshal() ([]byte, error) {
	switch ix.Type {
	case InitializeMint:
		if err := ix.Authority.Validate(); err != nil {
			return nil, errors.Wrap(err, "mint authority")
		}
		raw := make([]byte, 2+ledger.AddressLength+1)
		raw[0] = byte(ix.Type)
		raw[1] = ix.Decimals
		copy(raw[2:], ix.Authority)
		return raw, nil
	case InitializeAccount, CloseAccount:
		return []byte{byte(ix.Type)}, nil
	case Transfer, MintTo:
		raw := make([]byte, 9)
		raw[0] = byte(ix.Type)
		binary.LittleEndian.PutUint64(raw[1:], ix.Amount)
		return raw, nil
	case SetAuthority:
		if len(ix.Authority) == 0 {
			return []byte{byte(ix.Type), byte(ix.AuthorityType), 0}, nil
		}
		if err := ix.Authority.Validate(); err != nil {
			return nil, errors.Wrap(err, "new authority")
		}
		raw := make([]byte, 3+ledger.AddressLength)
		raw[0] = byte(ix.Type)
		raw[1] = byte(ix.AuthorityType)
		raw[2] = 1
		copy(raw[3:], ix.Authority)
		return raw, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInstructionData, "type %d", ix.Type)
	}
}

// UnmarshalInstruction decodes instruction data. Trailing bytes are not
// accepted.
func UnmarshalInstruction(raw []byte) (Instruction, error) {
	if len(raw) == 0 {
		return Instruction{}, errors.Wrap(errors.ErrInvalidInstructionData, "empty")
	}
	ix := Instruction{Type: InstructionType(raw[0])}
	rest := raw[1:]
	switch ix.Type {
	case InitializeMint:
		if len(rest) != 1+ledger.AddressLength+1 {
			return ix, errors.Wrap(errors.ErrInvalidInstructionData, "initialize mint size")
		}
		if rest[1+ledger.AddressLength] != 0 {
			return ix, errors.Wrap(errors.ErrInvalidInstructionData, "freeze authority is not supported")
		}
		ix.Decimals = rest[0]
		ix.Authority = append(ledger.Address(nil), rest[1:1+ledger.AddressLength]...)
	case InitializeAccount, CloseAccount:
		if len(rest) != 0 {
			return ix, errors.Wrapf(errors.ErrInvalidInstructionData, "%s size", ix.Type)
		}
	case Transfer, MintTo:
		if len(rest) != 8 {
			return ix, errors.Wrapf(errors.ErrInvalidInstructionData, "%s size", ix.Type)
		}
		ix.Amount = binary.LittleEndian.Uint64(rest)
	case SetAuthority:
		if len(rest) < 2 {
			return ix, errors.Wrap(errors.ErrInvalidInstructionData, "set authority size")
		}
		ix.AuthorityType = AuthorityType(rest[0])
		switch rest[1] {
		case 0:
			if len(rest) != 2 {
				return ix, errors.Wrap(errors.ErrInvalidInstructionData, "set authority size")
			}
		case 1:
			if len(rest) != 2+ledger.AddressLength {
				return ix, errors.Wrap(errors.ErrInvalidInstructionData, "set authority size")
			}
			ix.Authority = append(ledger.Address(nil), rest[2:]...)
		default:
			return ix, errors.Wrap(errors.ErrInvalidInstructionData, "authority option")
		}
	default:
		return ix, errors.Wrapf(errors.ErrInvalidInstructionData, "unknown type %d", raw[0])
	}
	return ix, nil
}
