// Package extract pulls simple features out of a job description: the main
// task sentence, a quantity of deliverables, a mentioned tool and urgency.
package extract

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/amishk599/bidcraft/internal/model"
	"github.com/amishk599/bidcraft/internal/templates"
)

// minMainTaskLen is the trimmed length a sentence must exceed to count as the main task.
const minMainTaskLen = 20

var sentenceSplit = regexp.MustCompile(`[.!?\n]`)

// Extractor scans text for features. It holds only immutable state and is
// safe for concurrent use.
type Extractor struct {
	quantity *regexp.Regexp
	tools    []string
	urgency  []string
}

// NewExtractor builds an extractor from the given vocabulary.
func NewExtractor(vocab templates.Vocabulary) *Extractor {
	return &Extractor{
		quantity: quantityPattern(vocab.Nouns),
		tools:    lowerAll(vocab.Tools),
		urgency:  lowerAll(vocab.UrgencyWords),
	}
}

// quantityPattern matches "<number> <noun>", e.g. "1,250 leads". Longer nouns
// come first so "data points" wins over "data point" and "leads" over "lead".
func quantityPattern(nouns []string) *regexp.Regexp {
	sorted := make([]string, len(nouns))
	copy(sorted, nouns)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	alts := make([]string, 0, len(sorted))
	for _, n := range sorted {
		alts = append(alts, strings.ReplaceAll(regexp.QuoteMeta(n), " ", `\s+`))
	}
	return regexp.MustCompile(`(?i)\b(\d{1,6}(?:,\d{3})*)\s*(?:` + strings.Join(alts, "|") + `)\b`)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}

// Extract returns the features found in text. Anything not found is left at
// its zero value.
func (e *Extractor) Extract(text string) model.Features {
	var f model.Features
	f.MainTask = mainTask(text)

	if m := e.quantity.FindStringSubmatch(text); m != nil {
		f.Quantity = m[1]
		f.Deliverable = m[0]
	}

	lower := strings.ToLower(text)
	for _, tool := range e.tools {
		if strings.Contains(lower, tool) {
			// Casers are stateful, so one is built per match.
			f.Tool = cases.Title(language.English).String(tool)
			break
		}
	}

	for _, w := range e.urgency {
		if strings.Contains(lower, w) {
			f.Urgent = true
			break
		}
	}
	return f
}

func mainTask(text string) string {
	for _, s := range sentenceSplit.Split(text, -1) {
		s = strings.TrimSpace(s)
		if len(s) > minMainTaskLen {
			return s
		}
	}
	return ""
}
