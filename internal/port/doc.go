// Package port allocates the service listening port.
//
// # Allocation Strategy
//
// An explicitly requested port is validated against the host's current
// listening-socket table; if it is occupied the whole run fails (nothing is
// written past this point). With no requested port, the range
// [config.PortRangeFrom, config.PortRangeTo] is scanned in ascending order
// and the first free port is chosen.
//
// First-fit makes allocation deterministic: given the same occupied set,
// the same port is always picked.
//
// # Socket Table
//
// "Occupied" means an exact numeric match in the output of `ss -Htln`,
// executed through the system.CommandExecutor so tests can substitute
// canned socket tables.
package port
