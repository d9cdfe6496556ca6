// Package variant renders the reconciled record set into output variants.
//
// Every variant writes one global.ini below its own directory of the output
// root. A variant decides the value written for each record; the key set and
// order always match the reconciled records.
//
//	full        translation as-is
//	half        original text for classified records
//	both        original and translation for classified records
//	searchable  translation suffixed with the original, plus location names
//	pinyin      translation suffixed with pinyin initials
//
// The Runner writes variants concurrently under a lock on the output root.
// A failing variant never stops the others.
package variant
