// Package plugins holds the builtin component implementations. Each
// implementation self-declares its schema and constructor; RegisterBuiltins
// installs the whole set into a registry during the initialization phase.
package plugins
