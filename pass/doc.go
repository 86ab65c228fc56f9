// Package pass runs ordered pipelines of named transformations over an IR
// tree.
//
// Passes register themselves into one process-wide catalog with Register.
// A Manager built from a list of names looks each one up in that catalog;
// when two passes share a name the first registrant wins. Run executes the
// pipeline in order and stops at the first failure. Nothing is rolled back,
// so a pass must leave the tree usable when it fails halfway.
package pass
