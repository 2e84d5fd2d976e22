// Package input implements the sectioned text format used to describe a
// computation: `&SECTION ... &END` blocks holding key=value pairs.
//
// The parser produces an ordered Document of Sections with typed values
// (int, float, bool, string or list). The writer serializes a Document back
// to the same format, such that parsing the output yields an equal Document.
package input
