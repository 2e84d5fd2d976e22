// Package resolve turns parsed user sections into a complete, fully
// defaulted configuration.
//
// Resolution is deterministic: PROBLEM and ALGORITHM names are fixed
// first since they gate which other sections are mandatory, then sections
// are resolved in the order PROBLEM, DRIVER, driver companion, problem
// requirements, ALGORITHM, algorithm requirements (in declaration order),
// BACKEND. A later section may read earlier resolved values, never the
// reverse. Resolution is atomic: it returns a complete configuration or
// fails without partial effect.
package resolve
