// Package testset reads and writes the labeled test-set artifact: a JSONL
// file of {"query", "gt"} records, one per line, each line newline-terminated.
package testset

// TestCase pairs a synthetic patient query with its ground-truth ICD code.
// Exactly these two fields are serialized.
type TestCase struct {
	Query string `json:"query"`
	GT    string `json:"gt"`
}

//Personal.AI order the ending
