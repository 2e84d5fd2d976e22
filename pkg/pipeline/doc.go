// Package pipeline defines the core types of the configuration pipeline:
// the pluggable-component kinds, the classified error taxonomy, the
// interfaces every component implements, the resolved-configuration type
// and the invoker that dispatches a resolved configuration to the selected
// algorithm.
//
// The pipeline is strictly staged: parse -> resolve -> validate -> invoke,
// each stage completing before the next starts. Parse and resolution
// failures are fatal; validation errors are collected in full and invocation
// never proceeds while any remain.
package pipeline
