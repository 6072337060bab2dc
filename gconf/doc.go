/*

Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each package that needs configuration declares a type implementing
Configuration and stores a single instance of it under the "_c:<package>"
key. Configurations are loaded from the "conf" section of the genesis file
with InitConfig and read by programs at execution time with Load.

Not being able to get a configuration value is a critical condition for the
ledger and there is no recovery path for the client. The ledger must be
configured correctly.

*/
package gconf
