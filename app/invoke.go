package app

import (
	"bytes"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// MaxCallDepth is the deepest allowed nesting of program calls. Top level
// instructions are executed with depth 1.
const MaxCallDepth = 4

// execution holds the state of a single transaction. All accounts are
// loaded once and shared by every program call within the transaction.
type execution struct {
	router  *Router
	db      ledger.KVStore
	bucket  orm.AccountBucket
	signers map[string]bool

	accounts map[string]*ledger.Account
	// original holds the state of every loaded account before the
	// transaction, nil for accounts that did not exist.
	original map[string]*ledger.Account
	// order keeps the load order so that accounts are persisted
	// deterministically.
	order []ledger.Address
}

func newExecution(router *Router, db ledger.KVStore, signers map[string]bool) *execution {
	return &execution{
		router:   router,
		db:       db,
		bucket:   orm.NewAccountBucket(),
		signers:  signers,
		accounts: make(map[string]*ledger.Account),
		original: make(map[string]*ledger.Account),
	}
}

// load returns the shared account stored under given address. An address
// without an account is an empty account owned by the system program.
func (e *execution) load(addr ledger.Address) (*ledger.Account, error) {
	if acct, ok := e.accounts[string(addr)]; ok {
		return acct, nil
	}
	acct, err := e.bucket.GetAccount(e.db, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "load account %s", addr)
	}
	if acct == nil {
		acct = ledger.NewAccount(0, 0, append(ledger.Address(nil), ledger.SystemProgramID...))
		e.original[string(addr)] = nil
	} else {
		e.original[string(addr)] = acct.Clone()
	}
	e.accounts[string(addr)] = acct
	e.order = append(e.order, addr)
	return acct, nil
}

// resolve builds the account infos of a top level instruction.
func (e *execution) resolve(ix ledger.Instruction) ([]*ledger.AccountInfo, error) {
	infos := make([]*ledger.AccountInfo, len(ix.Accounts))
	for i, m := range ix.Accounts {
		if m.IsSigner && !e.signers[string(m.Address)] {
			return nil, errors.Wrapf(errors.ErrMissingRequiredSignature, "account %d: %s", i, m.Address)
		}
		acct, err := e.load(m.Address)
		if err != nil {
			return nil, err
		}
		infos[i] = &ledger.AccountInfo{
			Key:        m.Address,
			IsSigner:   m.IsSigner,
			IsWritable: m.IsWritable,
			Account:    acct,
		}
	}
	return infos, nil
}

// call executes a program and verifies that it modified only what it was
// allowed to.
func (e *execution) call(ctx ledger.Context, programID ledger.Address, infos []*ledger.AccountInfo, data []byte) error {
	depth := ledger.GetCallDepth(ctx) + 1
	if depth > MaxCallDepth {
		return errors.Wrapf(errors.ErrCallDepth, "depth %d", depth)
	}
	program, err := e.router.Program(programID)
	if err != nil {
		return err
	}

	f := newFrame(programID, infos)
	ctx = ledger.WithCallDepth(ctx, depth)
	env := ledger.Env{
		ProgramID: programID,
		Invoker:   &invoker{exec: e, frame: f, infos: infos},
	}
	if err := program.Process(ctx, env, infos, data); err != nil {
		return err
	}
	return f.verify()
}

// persist writes all accounts changed by the transaction. Accounts left
// without lamports are purged, all other changed accounts must be rent
// exempt.
func (e *execution) persist() error {
	rent, err := e.rent()
	if err != nil {
		return err
	}
	for _, addr := range e.order {
		acct := e.accounts[string(addr)]
		orig := e.original[string(addr)]
		if orig == nil && acct.Lamports == 0 {
			continue
		}
		if orig != nil && equalAccounts(orig, acct) {
			continue
		}
		if acct.Lamports != 0 && !rent.IsExempt(acct.Lamports, len(acct.Data)) {
			return errors.Wrapf(errors.ErrInsufficientFunds, "account %s holds %d, rent exemption requires %d",
				addr, acct.Lamports, rent.MinimumBalance(len(acct.Data)))
		}
		if err := e.bucket.Save(e.db, addr, acct); err != nil {
			return errors.Wrapf(err, "save account %s", addr)
		}
	}
	return nil
}

// rent returns the rent declared by the sysvar, or the default one if the
// sysvar does not exist.
func (e *execution) rent() (ledger.Rent, error) {
	acct, err := e.bucket.GetAccount(e.db, ledger.SysvarRentID)
	if err != nil {
		return ledger.Rent{}, err
	}
	if acct == nil {
		return ledger.DefaultRent(), nil
	}
	return ledger.UnmarshalRent(acct.Data)
}

func equalAccounts(a, b *ledger.Account) bool {
	return a.Lamports == b.Lamports &&
		a.Executable == b.Executable &&
		a.Owner.Equals(b.Owner) &&
		bytes.Equal(a.Data, b.Data)
}

// frame is a single program call. It remembers the state of every account
// the program can access so that changes can be verified once it returns.
type frame struct {
	program   ledger.Address
	snapshots []*snapshot
}

type snapshot struct {
	key      ledger.Address
	writable bool
	account  *ledger.Account
	state    *ledger.Account
}

func newFrame(program ledger.Address, infos []*ledger.AccountInfo) *frame {
	f := &frame{program: program}
	seen := make(map[string]*snapshot, len(infos))
	for _, info := range infos {
		if s, ok := seen[string(info.Key)]; ok {
			s.writable = s.writable || info.IsWritable
			continue
		}
		s := &snapshot{
			key:      info.Key,
			writable: info.IsWritable,
			account:  info.Account,
			state:    info.Account.Clone(),
		}
		seen[string(info.Key)] = s
		f.snapshots = append(f.snapshots, s)
	}
	return f
}

// refresh takes the current state as the new reference. Called around
// cross program invocations, once changes made so far were verified.
func (f *frame) refresh() {
	for _, s := range f.snapshots {
		s.state = s.account.Clone()
	}
}

// verify checks every change since the last snapshot.
func (f *frame) verify() error {
	var before, after uint64
	for _, s := range f.snapshots {
		if err := s.verify(f.program); err != nil {
			return err
		}
		if before+s.state.Lamports < before || after+s.account.Lamports < after {
			return errors.Wrap(errors.ErrOverflow, "sum of lamports")
		}
		before += s.state.Lamports
		after += s.account.Lamports
	}
	if before != after {
		return errors.Wrapf(errors.ErrUnbalancedInstruction, "program %s: before %d, after %d", f.program, before, after)
	}
	return nil
}

func (s *snapshot) verify(program ledger.Address) error {
	pre, post := s.state, s.account
	if !s.writable {
		if !equalAccounts(pre, post) {
			return errors.Wrapf(errors.ErrExternalAccountModified, "read-only account %s", s.key)
		}
		return nil
	}
	if pre.Executable != post.Executable {
		return errors.Wrapf(errors.ErrExternalAccountModified, "executable flag of %s", s.key)
	}
	owned := pre.Owner.Equals(program)
	if !pre.Owner.Equals(post.Owner) && (!owned || !isZeroed(post.Data)) {
		return errors.Wrapf(errors.ErrExternalAccountModified, "owner of %s", s.key)
	}
	if !owned && !bytes.Equal(pre.Data, post.Data) {
		return errors.Wrapf(errors.ErrExternalAccountModified, "data of %s", s.key)
	}
	if !owned && post.Lamports < pre.Lamports {
		return errors.Wrapf(errors.ErrExternalAccountModified, "debit of %s", s.key)
	}
	return nil
}

func isZeroed(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

// invoker executes cross program invocations on behalf of a running
// program.
type invoker struct {
	exec  *execution
	frame *frame
	// infos are the accounts the calling program received.
	infos []*ledger.AccountInfo
}

var _ ledger.Invoker = (*invoker)(nil)

func (inv *invoker) Invoke(ctx ledger.Context, ix ledger.Instruction, accounts []*ledger.AccountInfo) error {
	return inv.InvokeSigned(ctx, ix, accounts, nil)
}

// InvokeSigned calls another program. Signer and writable privileges are
// those the caller received, extended by the addresses derived from the
// caller program and the given seeds.
func (inv *invoker) InvokeSigned(ctx ledger.Context, ix ledger.Instruction, accounts []*ledger.AccountInfo, signerSeeds [][][]byte) error {
	if err := ix.Validate(); err != nil {
		return err
	}
	signers := make(map[string]bool)
	for _, info := range inv.infos {
		if info.IsSigner {
			signers[string(info.Key)] = true
		}
	}
	for _, seeds := range signerSeeds {
		addr, err := ledger.CreateProgramAddress(seeds, inv.frame.program)
		if err != nil {
			return err
		}
		signers[string(addr)] = true
	}

	if !containsKey(accounts, ix.ProgramID) {
		return errors.Wrapf(errors.ErrNotEnoughAccountKeys, "program account %s", ix.ProgramID)
	}
	callee := make([]*ledger.AccountInfo, len(ix.Accounts))
	for i, m := range ix.Accounts {
		if !containsKey(accounts, m.Address) {
			return errors.Wrapf(errors.ErrNotEnoughAccountKeys, "account %s", m.Address)
		}
		// Privileges and state always come from what the runtime handed
		// to the caller.
		granted := inv.granted(m.Address)
		if granted == nil {
			return errors.Wrapf(errors.ErrNotEnoughAccountKeys, "account %s was not provided to the caller", m.Address)
		}
		if m.IsSigner && !signers[string(m.Address)] {
			return errors.Wrapf(ErrPrivilegeEscalation, "signer %s", m.Address)
		}
		if m.IsWritable && !granted.IsWritable {
			return errors.Wrapf(ErrPrivilegeEscalation, "writable %s", m.Address)
		}
		callee[i] = &ledger.AccountInfo{
			Key:        m.Address,
			IsSigner:   m.IsSigner,
			IsWritable: m.IsWritable,
			Account:    granted.Account,
		}
	}

	if err := inv.frame.verify(); err != nil {
		return err
	}
	inv.frame.refresh()
	if err := inv.exec.call(ctx, ix.ProgramID, callee, ix.Data); err != nil {
		return err
	}
	inv.frame.refresh()
	return nil
}

// granted returns the most privileged info of given address the caller
// received.
func (inv *invoker) granted(addr ledger.Address) *ledger.AccountInfo {
	var found *ledger.AccountInfo
	for _, info := range inv.infos {
		if !info.Key.Equals(addr) {
			continue
		}
		if found == nil || (info.IsWritable && !found.IsWritable) {
			found = info
		}
	}
	return found
}

func containsKey(infos []*ledger.AccountInfo, addr ledger.Address) bool {
	for _, info := range infos {
		if info.Key.Equals(addr) {
			return true
		}
	}
	return false
}
