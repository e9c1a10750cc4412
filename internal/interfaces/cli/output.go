package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/turtacn/DiagBench/internal/application/generation"
	"github.com/turtacn/DiagBench/internal/application/ragcheck"
	"github.com/turtacn/DiagBench/internal/application/validation"
	"github.com/turtacn/DiagBench/internal/domain/testset"
	"github.com/turtacn/DiagBench/internal/intelligence/symptom_extractor"
)

const bannerWidth = 80

var (
	passLabel  = color.New(color.FgGreen, color.Bold).SprintFunc()
	failLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorLabel = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// preview cuts s to n runes, marking the cut with "...".
func preview(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// formatRate renders a 0..1 rate, or n/a when it is undefined.
func formatRate(s validation.Stats) string {
	if !s.RateDefined {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", s.Rate*100)
}

func banner(w io.Writer, title string) {
	fmt.Fprintln(w, strings.Repeat("=", bannerWidth))
	if title != "" {
		fmt.Fprintln(w, title)
		fmt.Fprintln(w, strings.Repeat("=", bannerWidth))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation trace
// ─────────────────────────────────────────────────────────────────────────────

// consoleTrace prints each outcome as the run produces it.
type consoleTrace struct {
	w            io.Writer
	total        int
	previewRunes int
}

func (t *consoleTrace) OnOutcome(_ context.Context, _ string, o validation.Outcome) error {
	w := t.w
	fmt.Fprintf(w, "Test %d/%d: %q\n", o.Index, t.total, preview(o.Case.Query, t.previewRunes))
	fmt.Fprintf(w, "   Ground Truth (GT): %s\n", o.Case.GT)

	switch o.Reason {
	case validation.ReasonMatched:
		fmt.Fprintf(w, "   %s - Matched: %s (%s) [%s]\n", passLabel("PASS"), o.FoundCode, percent(o.Top.LikelihoodPercent), o.MatchKind)
		fmt.Fprintf(w, "      Diagnosis: %s\n", o.Top.Diagnosis)
	case validation.ReasonNoDiagnoses:
		fmt.Fprintf(w, "   %s - No diagnoses found\n", failLabel("FAIL"))
	case validation.ReasonCodeMismatch:
		fmt.Fprintf(w, "   %s - Got: %s, Expected: %s\n", failLabel("FAIL"), o.FoundCode, o.Case.GT)
		fmt.Fprintf(w, "      Diagnosis: %s\n", o.Top.Diagnosis)
		if len(o.Alternatives) > 0 {
			fmt.Fprintf(w, "      Top %d matches:\n", len(o.Alternatives))
			for i, c := range o.Alternatives {
				fmt.Fprintf(w, "         %d. %s - %s\n", i+1, strings.Join(c.ICDCodes, ", "), c.Diagnosis)
			}
		}
	case validation.ReasonServiceError:
		fmt.Fprintf(w, "   %s: %s\n", errorLabel("ERROR"), o.Error)
	}
	fmt.Fprintln(w)
	return nil
}

func (t *consoleTrace) OnComplete(context.Context, *validation.Report) error { return nil }

func printValidationSummary(w io.Writer, s validation.Stats) {
	banner(w, "")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Passed", fmt.Sprintf("%d/%d", s.Passed, s.Total)})
	table.Append([]string{"Failed", fmt.Sprintf("%d/%d", s.Failed, s.Total)})
	table.Append([]string{"Exact matches", strconv.Itoa(s.ExactMatches)})
	table.Append([]string{"Category matches", strconv.Itoa(s.CategoryMatches)})
	for _, r := range validation.Reasons {
		if r == validation.ReasonMatched {
			continue
		}
		table.Append([]string{string(r), strconv.Itoa(s.ByReason[r])})
	}
	table.Append([]string{"Success rate", formatRate(s)})
	table.Render()
	banner(w, "")
}

// ─────────────────────────────────────────────────────────────────────────────
// RAG check
// ─────────────────────────────────────────────────────────────────────────────

const replyPreviewRunes = 150

func printRAGResult(w io.Writer, r ragcheck.Result) {
	fmt.Fprintf(w, "Test: %s\n", r.Case.Name)
	fmt.Fprintf(w, "   Q: %s\n", r.Case.Question)
	total := len(r.Case.Keywords)
	switch {
	case r.Error != "":
		fmt.Fprintf(w, "   %s: %s\n", errorLabel("ERROR"), r.Error)
	case r.Passed:
		fmt.Fprintf(w, "   %s (%.0f%%) - found %d/%d keywords\n", passLabel("PASS"), r.Score, len(r.Found), total)
		fmt.Fprintf(w, "   %s\n", preview(r.Reply, replyPreviewRunes))
	default:
		fmt.Fprintf(w, "   %s (%.0f%%) - found only %d/%d\n", failLabel("FAIL"), r.Score, len(r.Found), total)
		fmt.Fprintf(w, "   Missing: %s\n", strings.Join(r.Missing, ", "))
	}
	fmt.Fprintln(w)
}

func printRAGSummary(w io.Writer, rep *ragcheck.Report) {
	banner(w, "")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Case", "Score", "Result"})
	for _, r := range rep.Results {
		result := passLabel("PASS")
		switch {
		case r.Error != "":
			result = errorLabel("ERROR")
		case !r.Passed:
			result = failLabel("FAIL")
		}
		table.Append([]string{r.Case.Name, fmt.Sprintf("%.0f%%", r.Score), result})
	}
	table.Render()
	fmt.Fprintf(w, "PASSED: %d/%d\n", rep.Passed, len(rep.Results))
	fmt.Fprintf(w, "FAILED: %d/%d\n", rep.Failed, len(rep.Results))
	fmt.Fprintf(w, "Threshold: %.0f%%\n", rep.Threshold)
	banner(w, "")
}

// ─────────────────────────────────────────────────────────────────────────────
// Generation
// ─────────────────────────────────────────────────────────────────────────────

func printGenerationSummary(w io.Writer, sum generation.Summary, maxCases int, cases []testset.TestCase) {
	fmt.Fprintf(w, "Loaded corpus: %d documents (%d with codes, %d malformed lines skipped)\n",
		sum.Documents, sum.DocumentsWithCodes, sum.SkippedLines)
	fmt.Fprintf(w, "Generated %d test cases (max %d per protocol)\n", sum.Cases, maxCases)
	if sum.InvalidCodes > 0 {
		fmt.Fprintf(w, "Warning: %d ground-truth codes do not look like ICD-10\n", sum.InvalidCodes)
	}
	if len(sum.ByStrategy) > 0 {
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Strategy", "Cases"})
		for _, name := range []string{
			symptom_extractor.StrategyDictionary,
			symptom_extractor.StrategySection,
			symptom_extractor.StrategySentence,
			symptom_extractor.StrategyNone,
		} {
			if n, ok := sum.ByStrategy[name]; ok {
				table.Append([]string{name, strconv.Itoa(n)})
			}
		}
		table.Render()
	}
	fmt.Fprintf(w, "Saved to: %s (query + gt only)\n", sum.Output)
	if len(cases) > 0 {
		// same encoding as the artifact lines
		var example bytes.Buffer
		if err := testset.Write(&example, cases[:1]); err == nil {
			fmt.Fprintf(w, "\nExample: %s", example.String())
		}
	}
}

//Personal.AI order the ending
