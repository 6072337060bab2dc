/*
Package ledgertest provides helpers and mock implementations that can be used
to test programs and the runtime.
*/
package ledgertest
