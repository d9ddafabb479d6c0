// Package model parses the text files a radar processing run leaves behind
// and holds the values the reports are built from.
//
// # Baselines
//
// A short-baseline file lists one date pair per line, tab separated:
//
//	20200101	20200113	12.34567	12
//
// [ParseBaseline] reads it into [DataRow] values in file order. [Dates]
// derives the sorted set of acquisition dates, and [FormatDistance] renders
// a distance the way it appears in the metadata table.
//
// # Coherence and coregistration
//
// [ParseCoherence] reads before/after coherence samples and
// [ParseCoregistration] reads the two-pass coregistration error report.
//
// # Encodings
//
// Every parser takes an [io.Reader]. [OpenFile] wraps a file in a decoder
// for a named text encoding (for example "big5" or "utf-8") so inputs written
// on systems with a legacy code page parse correctly.
package model
