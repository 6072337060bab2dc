/*
Package token implements the token program: mints, token accounts and the
transfer, authority and close operations on them.

Token state lives in the data of accounts owned by this program. A mint
declares the asset, a token account holds a balance of a single mint on
behalf of its owner. The owner of a token account is the only authority that
can move its balance. Changing the owner to a program derived address hands
control over the balance to the program the address was derived from.
*/
package token
