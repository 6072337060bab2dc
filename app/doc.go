/*
Package app contains the runtime that executes transactions against the
account ledger, together with its ABCI adapter.

A transaction is a list of instructions. Each instruction names a program,
the accounts it operates on, and opaque data. The Runtime resolves the
accounts, checks the signatures and calls the program registered under the
instruction program id. Programs may call other programs through the
ledger.Invoker they receive.

After every program call the runtime verifies that the program only did
what it is allowed to: the sum of lamports is unchanged, only the owner
debits an account or changes its data, and read-only accounts are left
untouched. A transaction is applied only if all of its instructions succeed.

The Router maps program ids to programs. Decorators may be chained in front
of a program with ChainDecorators.
*/
package app
