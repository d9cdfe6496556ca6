// Package reconcile merges crowd-sourced translation records with the
// reference mapping into one record per reference key.
//
// Every record of every source (except those in the excluded folder) is
// folded into a scratch index keyed by record key; when two records share a
// key the one with the larger ID wins, and on equal IDs the one seen first
// in source order wins. The output then walks the reference in order: a key
// with a record takes that record, a key without one gets a synthesized
// record whose original and translation are the reference text. Records
// whose key is not in the reference are dropped.
//
// The result is checked with VerifyIntegrity before it is returned: the
// output key set must equal the reference key set.
package reconcile
