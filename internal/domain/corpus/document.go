// Package corpus reads protocol documents from a JSONL corpus. Each line is
// one JSON record {id?, text, icd_codes}; the reader streams them forward
// only and never holds more than one line in memory.
package corpus

// ProtocolDocument is one clinical protocol with the ICD codes it covers.
// It is not modified after it is read.
type ProtocolDocument struct {
	// ID is the record's id field, or "line:<n>" when the record has none.
	ID string
	// Text is the record's text in Unicode NFC.
	Text string
	// ICDCodes is the record's icd_codes list verbatim, in order, with
	// duplicates and malformed entries kept.
	ICDCodes []string
}

// HasCodes reports whether the document lists at least one code.
func (d *ProtocolDocument) HasCodes() bool {
	return d != nil && len(d.ICDCodes) > 0
}

// record is the on-disk shape of a corpus line.
type record struct {
	ID       rawID    `json:"id"`
	Text     string   `json:"text"`
	ICDCodes []string `json:"icd_codes"`
}

//Personal.AI order the ending
