package token

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// RegisterProgram registers the token program under given address.
func RegisterProgram(r ledger.Registry, programID ledger.Address) {
	r.Register(programID, NewProgram())
}

// Program is the token program.
type Program struct{}

var _ ledger.Program = Program{}

// NewProgram returns the token program.
func NewProgram() Program {
	return Program{}
}

// Process decodes the instruction and runs the matching operation.
func (p Program) Process(ctx ledger.Context, env ledger.Env, accounts []*ledger.AccountInfo, data []byte) error {
	ix, err := UnmarshalInstruction(data)
	if err != nil {
		return err
	}
	it := ledger.NewAccountIter(accounts)
	switch ix.Type {
	case InitializeMint:
		return p.initializeMint(env, it, ix)
	case InitializeAccount:
		return p.initializeAccount(env, it)
	case Transfer:
		return p.transfer(env, it, ix.Amount)
	case SetAuthority:
		return p.setAuthority(env, it, ix)
	case MintTo:
		return p.mintTo(env, it, ix.Amount)
	case CloseAccount:
		return p.closeAccount(env, it)
	}
	return errors.Wrapf(errors.ErrInvalidInstructionData, "type %d", ix.Type)
}

func (p Program) initializeMint(env ledger.Env, it *ledger.AccountIter, ix Instruction) error {
	mintInfo, err := it.Next()
	if err != nil {
		return err
	}
	rentInfo, err := it.Next()
	if err != nil {
		return err
	}
	if !mintInfo.OwnedBy(env.ProgramID) {
		return errors.Wrap(errors.ErrIncorrectProgramID, "mint")
	}
	mint, err := UnpackMintUnchecked(mintInfo.Data)
	if err != nil {
		return err
	}
	if mint.IsInitialized {
		return errors.Wrap(errors.ErrAccountAlreadyInitialized, "mint")
	}
	if err := requireRentExempt(mintInfo, rentInfo); err != nil {
		return err
	}
	mint.IsInitialized = true
	mint.Decimals = ix.Decimals
	mint.MintAuthority = ix.Authority
	return mint.Pack(mintInfo.Data)
}

func (p Program) initializeAccount(env ledger.Env, it *ledger.AccountIter) error {
	acctInfo, err := it.Next()
	if err != nil {
		return err
	}
	mintInfo, err := it.Next()
	if err != nil {
		return err
	}
	ownerInfo, err := it.Next()
	if err != nil {
		return err
	}
	rentInfo, err := it.Next()
	if err != nil {
		return err
	}
	if !acctInfo.OwnedBy(env.ProgramID) {
		return errors.Wrap(errors.ErrIncorrectProgramID, "token account")
	}
	acct, err := UnpackAccountUnchecked(acctInfo.Data)
	if err != nil {
		return err
	}
	if acct.IsInitialized() {
		return errors.Wrap(errors.ErrAccountAlreadyInitialized, "token account")
	}
	if err := requireRentExempt(acctInfo, rentInfo); err != nil {
		return err
	}
	if !mintInfo.OwnedBy(env.ProgramID) {
		return errors.Wrap(errors.ErrIncorrectProgramID, "mint")
	}
	if _, err := UnpackMint(mintInfo.Data); err != nil {
		return errors.Wrap(err, "mint")
	}
	acct.Mint = mintInfo.Key
	acct.Owner = ownerInfo.Key
	acct.Amount = 0
	acct.State = StateInitialized
	return acct.Pack(acctInfo.Data)
}

func (p Program) transfer(env ledger.Env, it *ledger.AccountIter, amount uint64) error {
	srcInfo, err := it.Next()
	if err != nil {
		return err
	}
	dstInfo, err := it.Next()
	if err != nil {
		return err
	}
	authInfo, err := it.Next()
	if err != nil {
		return err
	}
	src, err := loadAccount(env, srcInfo, "source")
	if err != nil {
		return err
	}
	dst, err := loadAccount(env, dstInfo, "destination")
	if err != nil {
		return err
	}
	if !src.Mint.Equals(dst.Mint) {
		return ErrMintMismatch
	}
	if err := requireAuthority(src.Owner, authInfo); err != nil {
		return err
	}
	if src.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientFunds, "balance %d, transfer %d", src.Amount, amount)
	}
	if srcInfo.Key.Equals(dstInfo.Key) {
		return nil
	}
	if dst.Amount+amount < dst.Amount {
		return errors.Wrap(errors.ErrOverflow, "destination amount")
	}
	src.Amount -= amount
	dst.Amount += amount
	if err := src.Pack(srcInfo.Data); err != nil {
		return err
	}
	return dst.Pack(dstInfo.Data)
}

func (p Program) setAuthority(env ledger.Env, it *ledger.AccountIter, ix Instruction) error {
	targetInfo, err := it.Next()
	if err != nil {
		return err
	}
	authInfo, err := it.Next()
	if err != nil {
		return err
	}
	if !targetInfo.OwnedBy(env.ProgramID) {
		return errors.Wrap(errors.ErrIncorrectProgramID, "target")
	}

	switch len(targetInfo.Data) {
	case AccountLen:
		acct, err := UnpackAccount(targetInfo.Data)
		if err != nil {
			return err
		}
		if ix.AuthorityType != AccountOwner {
			return errors.Wrapf(errors.ErrInvalidArgument, "authority type %d of a token account", ix.AuthorityType)
		}
		if len(ix.Authority) == 0 {
			return errors.Wrap(errors.ErrInvalidArgument, "token account must have an owner")
		}
		if err := requireAuthority(acct.Owner, authInfo); err != nil {
			return err
		}
		acct.Owner = ix.Authority
		return acct.Pack(targetInfo.Data)
	case MintLen:
		mint, err := UnpackMint(targetInfo.Data)
		if err != nil {
			return err
		}
		if ix.AuthorityType != MintTokens {
			return errors.Wrapf(errors.ErrInvalidArgument, "authority type %d of a mint", ix.AuthorityType)
		}
		if !mint.HasAuthority() {
			return ErrFixedSupply
		}
		if err := requireAuthority(mint.MintAuthority, authInfo); err != nil {
			return err
		}
		mint.MintAuthority = ix.Authority
		return mint.Pack(targetInfo.Data)
	default:
		return errors.Wrapf(errors.ErrInvalidAccountData, "target of %d bytes", len(targetInfo.Data))
	}
}

func (p Program) mintTo(env ledger.Env, it *ledger.AccountIter, amount uint64) error {
	mintInfo, err := it.Next()
	if err != nil {
		return err
	}
	dstInfo, err := it.Next()
	if err != nil {
		return err
	}
	authInfo, err := it.Next()
	if err != nil {
		return err
	}
	if !mintInfo.OwnedBy(env.ProgramID) {
		return errors.Wrap(errors.ErrIncorrectProgramID, "mint")
	}
	mint, err := UnpackMint(mintInfo.Data)
	if err != nil {
		return err
	}
	dst, err := loadAccount(env, dstInfo, "destination")
	if err != nil {
		return err
	}
	if !dst.Mint.Equals(mintInfo.Key) {
		return ErrMintMismatch
	}
	if !mint.HasAuthority() {
		return ErrFixedSupply
	}
	if err := requireAuthority(mint.MintAuthority, authInfo); err != nil {
		return err
	}
	if mint.Supply+amount < mint.Supply {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	if dst.Amount+amount < dst.Amount {
		return errors.Wrap(errors.ErrOverflow, "destination amount")
	}
	mint.Supply += amount
	dst.Amount += amount
	if err := mint.Pack(mintInfo.Data); err != nil {
		return err
	}
	return dst.Pack(dstInfo.Data)
}

func (p Program) closeAccount(env ledger.Env, it *ledger.AccountIter) error {
	acctInfo, err := it.Next()
	if err != nil {
		return err
	}
	dstInfo, err := it.Next()
	if err != nil {
		return err
	}
	authInfo, err := it.Next()
	if err != nil {
		return err
	}
	if acctInfo.Key.Equals(dstInfo.Key) {
		return errors.Wrap(errors.ErrInvalidAccountData, "cannot close into itself")
	}
	acct, err := loadAccount(env, acctInfo, "account")
	if err != nil {
		return err
	}
	if acct.Amount != 0 {
		return ErrNonNativeHasBalance
	}
	if err := requireAuthority(acct.Owner, authInfo); err != nil {
		return err
	}
	if dstInfo.Lamports+acctInfo.Lamports < dstInfo.Lamports {
		return errors.Wrap(errors.ErrOverflow, "destination lamports")
	}
	dstInfo.Lamports += acctInfo.Lamports
	acctInfo.Lamports = 0
	acctInfo.Data = []byte{}
	return nil
}

// loadAccount decodes an initialized token account owned by this program.
func loadAccount(env ledger.Env, info *ledger.AccountInfo, role string) (*Account, error) {
	if !info.OwnedBy(env.ProgramID) {
		return nil, errors.Wrap(errors.ErrIncorrectProgramID, role)
	}
	acct, err := UnpackAccount(info.Data)
	if err != nil {
		return nil, errors.Wrap(err, role)
	}
	return acct, nil
}

// requireAuthority ensures that the authority info is the expected one and
// that it signed the instruction.
func requireAuthority(expected ledger.Address, authority *ledger.AccountInfo) error {
	if !expected.Equals(authority.Key) {
		return ErrOwnerMismatch
	}
	if !authority.IsSigner {
		return errors.Wrapf(errors.ErrMissingRequiredSignature, "authority %s", authority.Key)
	}
	return nil
}

func requireRentExempt(info, rentInfo *ledger.AccountInfo) error {
	rent, err := ledger.RentFromAccountInfo(rentInfo)
	if err != nil {
		return err
	}
	if !rent.IsExempt(info.Lamports, len(info.Data)) {
		return ErrNotRentExempt
	}
	return nil
}
