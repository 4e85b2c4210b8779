// Package combination enumerates the machine groupings that may cover a power
// demand. Every candidate contains at least one ELCO unit: either a non-empty
// subset of the ELCO set alone, or such a subset joined with a non-empty subset
// of the TC set. The enumeration is exponential in the number of machines and
// is bounded by a configurable fleet size.
package combination
