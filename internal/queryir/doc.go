// Package queryir is a small filter language over the transcript log.
//
// A Query selects stored transcripts and filters them with a Predicate
// tree. Backends (see querysql) compile a validated Query into their own
// query form; callers never write SQL.
//
// Query and Predicate are sealed: only types in this package implement
// them, so backends can switch exhaustively.
//
//	switch p := pred.(type) {
//	case Equals:
//	case In:
//	case And:
//	}
//
// Every value is an ir.IRValue. Fields are typed: comparing "applied" to a
// string, or any field to IRNull, fails validation.
package queryir
