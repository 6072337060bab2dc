/*
Package system implements the system program. It owns every account that was
not assigned to any other program and is the only way to create new accounts
and to move native lamports between accounts it owns.
*/
package system
