package reconcile

import "math"

// SyntheticID marks records synthesized from the reference. It sorts below
// every real ID, so any real record for the same key replaces it.
const SyntheticID int64 = math.MinInt64

// DefaultExcludedFolder is the source folder that holds rule files rather
// than translations
const DefaultExcludedFolder = "rules"

// Record is one translation entry. Key is its identity; ID breaks ties.
type Record struct {
	ID          int64  `json:"id"`
	Key         string `json:"key"`
	Original    string `json:"original"`
	Translation string `json:"translation"`
	Stage       int    `json:"stage"`
	Context     string `json:"context,omitempty"`
}

// Synthesized reports whether the record was made from the reference text
func (r Record) Synthesized() bool {
	return r.ID == SyntheticID
}

// Source is one exported source file
type Source struct {
	Name    string
	Folder  string
	Records []Record
}

// Result is the reconciled record set
type Result struct {
	// Records holds one record per reference key, in reference order
	Records []Record
	// Missing lists reference keys no source provided, in reference order
	Missing []string
	// Dropped counts distinct keys found in sources but not in the reference
	Dropped int
	// Folded counts the sources that contributed records
	Folded int
	// Excluded lists the names of sources skipped because of their folder
	Excluded []string

	index map[string]int
}

// Get returns the reconciled record for key
func (r *Result) Get(key string) (Record, bool) {
	i, ok := r.index[key]
	if !ok {
		return Record{}, false
	}
	return r.Records[i], true
}

// Clone returns an independent copy of the records for one consumer
func (r *Result) Clone() []Record {
	return append([]Record(nil), r.Records...)
}
