// Package ruleconfig loads a rules directory into a Store.
//
// Layout:
//
//	rules/
//	  half.yaml              translation rule documents (top level)
//	  searchable.yaml
//	  common/                importable rule documents (any depth)
//	    locations.yaml
//	    ships/names.yaml
//
// Top-level documents group three rule documents (key, original,
// translation) plus named extension rules under ext. Importable documents
// are plain rule documents and are addressed by their slash-separated path
// relative to the rules directory, which is also how imports name them.
//
// Keys are matched case-insensitively and unknown keys are ignored.
package ruleconfig
