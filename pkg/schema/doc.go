// Package schema holds the option schemas of every pluggable component
// implementation and the registry that maps (kind, name) pairs to schemas
// and constructors.
//
// The registry has a two-phase lifecycle: implementations register during
// startup, then the registry is frozen and becomes read-only. Concurrent
// lookups and constructions are safe after the freeze; registration after
// the freeze is rejected.
package schema
