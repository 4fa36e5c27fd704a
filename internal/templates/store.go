// Package templates holds the static keyword and fragment tables that drive
// classification, feature extraction and proposal assembly.
package templates

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/bidcraft/internal/model"
)

// MainTaskSlot and ExperienceSlot are the placeholders substituted during assembly.
const (
	MainTaskSlot   = "{main_task}"
	ExperienceSlot = "{experience}"
)

//go:embed default.yaml
var defaultYAML []byte

// Set is the fragment bundle for one category.
type Set struct {
	Keywords  []string `yaml:"keywords"`
	Openers   []string `yaml:"openers"`
	Pain      string   `yaml:"pain"`
	Solution  string   `yaml:"solution"`
	ToolStack string   `yaml:"tool_stack"`
	Question  string   `yaml:"question"`
}

// Vocabulary holds the fixed word lists used by the feature extractor.
type Vocabulary struct {
	Nouns        []string `yaml:"nouns"`
	Tools        []string `yaml:"tools"`
	UrgencyWords []string `yaml:"urgency_words"`
}

// Store is the full template configuration. It is read-only once loaded and
// safe to share between goroutines.
type Store struct {
	Sets       map[model.Category]Set `yaml:"categories"`
	Experience []string               `yaml:"experience"`
	Closings   []string               `yaml:"closings"`
	Vocabulary Vocabulary             `yaml:"vocabulary"`
}

// Default returns the built-in tables.
func Default() (*Store, error) {
	var s Store
	if err := yaml.Unmarshal(defaultYAML, &s); err != nil {
		return nil, fmt.Errorf("parse default templates: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("default templates: %w", err)
	}
	return &s, nil
}

// MustDefault is Default for callers that cannot recover, such as tests and
// package-level setup.
func MustDefault() *Store {
	s, err := Default()
	if err != nil {
		panic(err)
	}
	return s
}

// LoadFile reads a YAML template file and overlays it on the defaults. Any
// field the file leaves empty keeps its default value. Environment variables
// in the file are expanded.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}

	var override Store
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &override); err != nil {
		return nil, fmt.Errorf("parse templates %s: %w", path, err)
	}

	s, err := Default()
	if err != nil {
		return nil, err
	}
	s.merge(override)

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("templates %s: %w", path, err)
	}
	return s, nil
}

func (s *Store) merge(o Store) {
	for c, ov := range o.Sets {
		cur := s.Sets[c]
		if len(ov.Keywords) > 0 {
			cur.Keywords = ov.Keywords
		}
		if len(ov.Openers) > 0 {
			cur.Openers = ov.Openers
		}
		if ov.Pain != "" {
			cur.Pain = ov.Pain
		}
		if ov.Solution != "" {
			cur.Solution = ov.Solution
		}
		if ov.ToolStack != "" {
			cur.ToolStack = ov.ToolStack
		}
		if ov.Question != "" {
			cur.Question = ov.Question
		}
		s.Sets[c] = cur
	}
	if len(o.Experience) > 0 {
		s.Experience = o.Experience
	}
	if len(o.Closings) > 0 {
		s.Closings = o.Closings
	}
	if len(o.Vocabulary.Nouns) > 0 {
		s.Vocabulary.Nouns = o.Vocabulary.Nouns
	}
	if len(o.Vocabulary.Tools) > 0 {
		s.Vocabulary.Tools = o.Vocabulary.Tools
	}
	if len(o.Vocabulary.UrgencyWords) > 0 {
		s.Vocabulary.UrgencyWords = o.Vocabulary.UrgencyWords
	}
}

// Validate checks that every category has a complete fragment set and that
// the shared lists are non-empty.
func (s *Store) Validate() error {
	for c := range s.Sets {
		if _, err := model.ParseCategory(string(c)); err != nil {
			return err
		}
	}
	for _, c := range model.Categories() {
		set, ok := s.Sets[c]
		if !ok {
			return fmt.Errorf("category %s: missing", c)
		}
		if len(set.Keywords) == 0 {
			return fmt.Errorf("category %s: no keywords", c)
		}
		for _, kw := range set.Keywords {
			if strings.TrimSpace(kw) == "" {
				return fmt.Errorf("category %s: blank keyword", c)
			}
		}
		if len(set.Openers) == 0 {
			return fmt.Errorf("category %s: no openers", c)
		}
		switch {
		case set.Pain == "":
			return fmt.Errorf("category %s: pain is required", c)
		case set.Solution == "":
			return fmt.Errorf("category %s: solution is required", c)
		case set.ToolStack == "":
			return fmt.Errorf("category %s: tool_stack is required", c)
		case set.Question == "":
			return fmt.Errorf("category %s: question is required", c)
		}
	}

	if len(s.Experience) == 0 {
		return fmt.Errorf("experience: at least one template is required")
	}
	for i, e := range s.Experience {
		if !strings.Contains(e, ExperienceSlot) {
			return fmt.Errorf("experience[%d]: missing %s placeholder", i, ExperienceSlot)
		}
	}
	if len(s.Closings) == 0 {
		return fmt.Errorf("closings: at least one closing is required")
	}

	if len(s.Vocabulary.Nouns) == 0 {
		return fmt.Errorf("vocabulary.nouns: must not be empty")
	}
	if len(s.Vocabulary.Tools) == 0 {
		return fmt.Errorf("vocabulary.tools: must not be empty")
	}
	if len(s.Vocabulary.UrgencyWords) == 0 {
		return fmt.Errorf("vocabulary.urgency_words: must not be empty")
	}
	return nil
}

// Keywords returns the trigger phrase table keyed by category.
func (s *Store) Keywords() map[model.Category][]string {
	out := make(map[model.Category][]string, len(s.Sets))
	for c, set := range s.Sets {
		out[c] = set.Keywords
	}
	return out
}
