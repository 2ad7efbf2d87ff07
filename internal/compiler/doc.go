// Package compiler turns CUE effect documents into IR effects.
//
// An effect document lists the (rule, action) matches the condition engine
// produced for one object:
//
//	object: "PHID-DREV-7"
//	effect: [{
//		action: "add-reviewers"
//		target: ["PHID-USER-alice"]
//		rule: {id: "H12", name: "Storage reviewers", author: "PHID-USER-admin", scope: "global"}
//	}]
//
// Order is preserved: it is the order the rules matched in, and the order
// transcripts are recorded in.
package compiler
