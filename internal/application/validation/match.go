package validation

import "github.com/turtacn/DiagBench/pkg/types/diagnosis"

// MatchKind says how a predicted code satisfied the ground truth.
type MatchKind string

const (
	MatchNone     MatchKind = ""
	MatchExact    MatchKind = "exact"
	MatchCategory MatchKind = "category"
)

// Classify compares a predicted code with the ground truth. An empty
// prediction never matches. Otherwise equal strings are an exact match and
// codes sharing their leading diagnosis.CategoryLength characters are a
// category match ("E78.0" vs "E78.2"). "I21" and "I20" do not match.
func Classify(found, gt string) MatchKind {
	if found == "" {
		return MatchNone
	}
	if found == gt {
		return MatchExact
	}
	if diagnosis.Code(found).SameCategory(diagnosis.Code(gt)) {
		return MatchCategory
	}
	return MatchNone
}

// Match reports whether found satisfies gt under the exact-or-category policy.
func Match(found, gt string) bool {
	return Classify(found, gt) != MatchNone
}

//Personal.AI order the ending
