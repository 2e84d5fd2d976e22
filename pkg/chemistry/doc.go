// Package chemistry defines the data exchanged across the driver boundary:
// molecular geometry and the one- and two-electron integral sets that
// operator construction consumes.
package chemistry
