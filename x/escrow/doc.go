/*
Package escrow implements a two party, non custodial swap of tokens.

The initializer locks tokens of mint X in a custody token account and states
how many tokens of mint Y they want in return. Ownership of the custody
account is handed over to an address derived from the escrow program, an
address that no private key exists for. Only the escrow program can sign for
it, and only while executing an Exchange instruction.

A taker settles the trade by sending the expected amount of Y to the
initializer. In the same instruction the escrow program moves all of the
custodied X to the taker, closes the custody account and destroys the escrow
record, returning all of the lamports to the initializer. Either all of those
effects are applied or none of them is.

There are two instructions:

  Initialize{amount}  [0][amount:8 LE]
  Exchange{amount}    [1][amount:8 LE]

An escrow record cannot be cancelled. Once initialized it can only be
consumed by an Exchange.
*/
package escrow
