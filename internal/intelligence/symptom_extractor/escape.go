package symptom_extractor

import "regexp"

// escapeCode quotes every regular-expression metacharacter in an ICD code so
// it can be embedded in a pattern as a literal ("O14.2" -> `O14\.2`).
func escapeCode(code string) string {
	return regexp.QuoteMeta(code)
}

//Personal.AI order the ending
