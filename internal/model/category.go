package model

import (
	"fmt"
	"strings"
)

// Category is the detected job-posting type that drives template selection.
type Category string

const (
	DataAnnotation   Category = "data_annotation"
	VirtualAssistant Category = "virtual_assistant"
	WebResearch      Category = "web_research"
	DataEntry        Category = "data_entry"
)

// DefaultCategory is used when no trigger phrase matches.
const DefaultCategory = DataEntry

var categories = []Category{DataAnnotation, VirtualAssistant, WebResearch, DataEntry}

// Categories returns every category in declaration order. Classifier ties are
// broken by this order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory returns the Category named by s.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Title returns the display label, e.g. "Web Research".
func (c Category) Title() string {
	words := strings.Split(string(c), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func (c Category) String() string {
	return string(c)
}
