// Package quantum is the boundary to the external quantum-algorithm
// library. The pipeline constructs operators and requests eigenvalue
// computations exclusively through the Runtime interface; the internals of
// eigensolvers, variational optimization and circuit simulation live behind
// it.
//
// The localsim subpackage ships a reference Runtime so the pipeline is
// runnable without an external collaborator, within documented limits.
package quantum
