// Package domain models wastewater discharge logsheets and their compliance
// against the effluent discharge standard.
//
// # Data Source
//
// Logsheets arrive as CSV exports from the plant monitoring system, one row
// per sampling day:
//
//	Date,pH,COD,SS,Zn
//	2024-01-01,7.0,50,40,0.5
//
// Re-exported sheets may carry the final-discharge labels ("pH F/D",
// "COD F/D", ...) instead; both spellings map onto the same [Record] fields.
// Header matching is case-insensitive and extra columns are ignored.
//
// # Discharge Standard
//
// Limits are fixed for the reporting period:
//
//	COD (mg/L):  value > 100 fails
//	SS  (mg/L):  value > 100 fails
//	Zn  (mg/L):  value > 1.0 fails
//	pH:          5.5 <= value <= 9.0 passes (both bounds inclusive)
//
// A value exactly at a limit passes. Violations inside a record are always
// listed in the order COD, SS, Zn, pH.
//
// # Data Quality
//
// Analysis fails closed. A missing column, an unparseable date, a blank or
// non-numeric reading, or an empty sheet yields a [DataFormatError]; no
// partial result is produced and rows are never silently skipped.
package domain
