// Package proposal assembles proposal text from category templates and
// extracted features, and runs the classify -> extract -> assemble pipeline.
package proposal

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/amishk599/bidcraft/internal/model"
	"github.com/amishk599/bidcraft/internal/templates"
)

const (
	greeting        = "Hi,"
	fallbackOpener  = "I can help with this."
	urgencyLine     = "I see this is time sensitive. I can start today."
	maxMainTaskLen  = 120
	fragmentDivider = "\n\n"
)

// Assembler turns a category and features into proposal text.
type Assembler struct {
	store   *templates.Store
	chooser Chooser
}

// NewAssembler returns an assembler over store. A nil chooser uses DefaultChooser.
func NewAssembler(store *templates.Store, chooser Chooser) *Assembler {
	if chooser == nil {
		chooser = DefaultChooser()
	}
	return &Assembler{store: store, chooser: chooser}
}

// Assemble builds one proposal. Blank experience or name omit their sections.
// The returned proposal has no ID or Version; Generator fills those in.
func (a *Assembler) Assemble(c model.Category, f model.Features, experience, name string) model.Proposal {
	set := a.store.Sets[c]

	fragments := []string{greeting, a.opener(set, f), set.Pain, set.Solution}

	if f.Tool != "" {
		fragments = append(fragments, fmt.Sprintf("I work with %s daily. Also use %s depending on what the project needs.", f.Tool, set.ToolStack))
	} else {
		fragments = append(fragments, fmt.Sprintf("I use %s for this type of work.", set.ToolStack))
	}

	if exp := strings.TrimSpace(experience); exp != "" {
		tmpl := a.pick(a.store.Experience)
		fragments = append(fragments, strings.ReplaceAll(tmpl, templates.ExperienceSlot, exp))
	}

	if f.Urgent {
		fragments = append(fragments, urgencyLine)
	}

	fragments = append(fragments, set.Question, a.pick(a.store.Closings))

	if n := strings.TrimSpace(name); n != "" {
		fragments = append(fragments, n)
	}

	text := strings.Join(fragments, fragmentDivider)
	return model.Proposal{
		Text:      text,
		Category:  c,
		WordCount: CountWords(text),
	}
}

func (a *Assembler) opener(set templates.Set, f model.Features) string {
	switch {
	case f.Deliverable != "":
		return fmt.Sprintf("I can get you those %s.", f.Deliverable)
	case f.MainTask != "":
		tmpl := a.pick(set.Openers)
		task := shortTask(f.MainTask)
		if strings.HasPrefix(tmpl, templates.MainTaskSlot) {
			task = capitalize(task)
		}
		return strings.ReplaceAll(tmpl, templates.MainTaskSlot, task)
	default:
		return fallbackOpener
	}
}

func (a *Assembler) pick(options []string) string {
	return options[a.chooser.IntN(len(options))]
}

// shortTask lower-cases the main task so it reads mid-sentence, and truncates it.
func shortTask(task string) string {
	runes := []rune(strings.ToLower(strings.TrimSpace(task)))
	if len(runes) > maxMainTaskLen {
		return strings.TrimSpace(string(runes[:maxMainTaskLen])) + "..."
	}
	return string(runes)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// CountWords returns the number of whitespace-separated tokens in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
