// Package classify maps a job description to a Category by keyword scoring.
package classify

import (
	"strings"

	"github.com/amishk599/bidcraft/internal/model"
)

// KeywordClassifier scores each category by how many of its trigger phrases
// appear in the text. Matching is case-insensitive substring matching and a
// phrase counts at most once.
type KeywordClassifier struct {
	order    []model.Category
	keywords map[model.Category][]string
}

// NewKeywordClassifier returns a classifier over the given trigger phrase
// table. Phrases are lower-cased once here.
func NewKeywordClassifier(keywords map[model.Category][]string) *KeywordClassifier {
	lowered := make(map[model.Category][]string, len(keywords))
	for c, kws := range keywords {
		out := make([]string, 0, len(kws))
		for _, kw := range kws {
			out = append(out, strings.ToLower(kw))
		}
		lowered[c] = out
	}
	return &KeywordClassifier{
		order:    model.Categories(),
		keywords: lowered,
	}
}

// Scores returns the per-category match count for text.
func (k *KeywordClassifier) Scores(text string) map[model.Category]int {
	textLower := strings.ToLower(text)
	scores := make(map[model.Category]int, len(k.order))
	for _, c := range k.order {
		n := 0
		for _, kw := range k.keywords[c] {
			if strings.Contains(textLower, kw) {
				n++
			}
		}
		scores[c] = n
	}
	return scores
}

// Classify returns the highest-scoring category. Ties go to the category
// declared first; no match at all yields model.DefaultCategory.
func (k *KeywordClassifier) Classify(text string) model.Category {
	scores := k.Scores(text)

	best, bestScore := model.DefaultCategory, 0
	for _, c := range k.order {
		if scores[c] > bestScore {
			best, bestScore = c, scores[c]
		}
	}
	return best
}
