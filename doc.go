/*
Package ledger defines the interfaces shared by the runtime and the programs
executed on it: addresses, accounts, instructions, programs and the storage
they are persisted in. It also contains helpers to derive program addresses,
read the rent rules and carry a logger through the context.

Look into this package to get a brief overview of design decisions made around
interfaces and extension building blocks. The runtime itself lives in the app
package, programs live under x/.
*/
package ledger
