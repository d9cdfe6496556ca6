// Package core implements the locmerge pipeline.
//
// A run loads the reference file and the exported sources, reconciles them
// into one record per reference key, verifies the key set, then renders
// every enabled output variant from its own copy of the records:
//
//	reference + sources -> reconcile -> verify -> rules -> variants
//
// Check stops after verification and also reports rule problems such as
// missing or cyclic imports. Explain follows a single key through every
// variant and reports the classifier decisions behind its output.
package core
