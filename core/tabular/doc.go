// Package tabular holds uploaded spreadsheets as rows of named string cells
// and provides the column operations used by the planner: demand extraction,
// grouping columns into named blocks, merging blocks, ratio columns and
// per-band summaries.
package tabular
