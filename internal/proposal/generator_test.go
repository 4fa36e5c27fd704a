package proposal

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/amishk599/bidcraft/internal/model"
	"github.com/amishk599/bidcraft/internal/templates"
)

// countingClassifier records how often it is called.
type countingClassifier struct {
	calls int
	c     model.Category
}

func (k *countingClassifier) Classify(string) model.Category {
	k.calls++
	return k.c
}

type stubExtractor struct{ f model.Features }

func (s stubExtractor) Extract(string) model.Features { return s.f }

func TestGenerate_Scenario(t *testing.T) {
	store := templates.MustDefault()
	g := New(store, NewSeededChooser(1), nil)

	proposals, err := g.Generate(model.Request{
		JobDescription: "We need 500 leads of SaaS founders with verified emails, urgent!",
		Experience:     "built a similar list of 300 contacts",
		AuthorName:     "Alex",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(proposals) != 1 {
		t.Fatalf("got %d proposals, want 1", len(proposals))
	}

	p := proposals[0]
	if p.Category != model.WebResearch {
		t.Errorf("Category = %s, want %s", p.Category, model.WebResearch)
	}
	set := store.Sets[model.WebResearch]
	for _, want := range []string{
		"500 leads",
		set.Pain,
		set.Solution,
		"built a similar list of 300 contacts",
		urgencyLine,
	} {
		if !strings.Contains(p.Text, want) {
			t.Errorf("text missing %q:\n%s", want, p.Text)
		}
	}
	if !strings.HasSuffix(p.Text, "Alex") {
		t.Errorf("text should end with the author name:\n%s", p.Text)
	}
	if p.WordCount != recount(p.Text) {
		t.Errorf("WordCount = %d, recount = %d", p.WordCount, recount(p.Text))
	}
	if p.ID == "" || p.Version != 1 {
		t.Errorf("ID = %q, Version = %d", p.ID, p.Version)
	}
}

func TestGenerate_DefaultCategory(t *testing.T) {
	g := New(templates.MustDefault(), nil, nil)
	proposals, err := g.Generate(model.Request{JobDescription: "Please help me with this task"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if proposals[0].Category != model.DataEntry {
		t.Errorf("Category = %s, want %s", proposals[0].Category, model.DataEntry)
	}
}

func TestGenerate_BlankDescription(t *testing.T) {
	k := &countingClassifier{c: model.DataEntry}
	g := NewGenerator(k, stubExtractor{}, NewAssembler(templates.MustDefault(), nil), nil)

	for _, desc := range []string{"", "   ", "\n\t"} {
		_, err := g.Generate(model.Request{JobDescription: desc})
		if !errors.Is(err, model.ErrEmptyJobDescription) {
			t.Errorf("Generate(%q) error = %v, want ErrEmptyJobDescription", desc, err)
		}
	}
	if k.calls != 0 {
		t.Errorf("classifier called %d times for blank input", k.calls)
	}
}

func TestGenerate_Variants(t *testing.T) {
	k := &countingClassifier{c: model.VirtualAssistant}
	g := NewGenerator(k, stubExtractor{f: model.Features{MainTask: "Manage my inbox and calendar daily"}}, NewAssembler(templates.MustDefault(), nil), nil)

	proposals, err := g.Generate(model.Request{JobDescription: "Manage my inbox and calendar daily", Variants: 3})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(proposals) != 3 {
		t.Fatalf("got %d proposals, want 3", len(proposals))
	}
	if k.calls != 1 {
		t.Errorf("classifier called %d times, want 1", k.calls)
	}

	ids := map[string]bool{}
	for i, p := range proposals {
		if p.Version != i+1 {
			t.Errorf("proposals[%d].Version = %d", i, p.Version)
		}
		if p.Category != model.VirtualAssistant {
			t.Errorf("proposals[%d].Category = %s", i, p.Category)
		}
		ids[p.ID] = true
	}
	if len(ids) != 3 {
		t.Errorf("expected distinct IDs, got %v", ids)
	}
}

func TestGenerate_NonPositiveVariantsMeansOne(t *testing.T) {
	g := New(templates.MustDefault(), nil, nil)
	proposals, err := g.Generate(model.Request{JobDescription: "Type up scanned forms", Variants: -2})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(proposals) != 1 {
		t.Errorf("got %d proposals, want 1", len(proposals))
	}
}

func TestGenerate_SeededBatchesMatch(t *testing.T) {
	store := templates.MustDefault()
	req := model.Request{
		JobDescription: "Looking for someone to build a contact list of HR managers at logistics companies.",
		Experience:     "built 3 similar lists",
		AuthorName:     "Alex",
		Variants:       3,
	}

	a, err := New(store, NewSeededChooser(99), nil).Generate(req)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(store, NewSeededChooser(99), nil).Generate(req)
	if err != nil {
		t.Fatal(err)
	}
	// IDs are fresh per call; everything else must match.
	if diff := cmp.Diff(a, b, cmpopts.IgnoreFields(model.Proposal{}, "ID")); diff != "" {
		t.Errorf("seeded batches differ (-first +second):\n%s", diff)
	}
}

func TestGenerate_ConcurrentCalls(t *testing.T) {
	tests := []struct {
		name    string
		chooser Chooser
	}{
		{"default", DefaultChooser()},
		{"seeded", NewSeededChooser(42)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(templates.MustDefault(), tt.chooser, nil)
			req := model.Request{
				JobDescription: "We need 500 leads of SaaS founders with verified emails, urgent!",
				AuthorName:     "Alex",
				Variants:       3,
			}

			const workers = 16
			var wg sync.WaitGroup
			errs := make(chan error, workers)
			for range workers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					proposals, err := g.Generate(req)
					if err != nil {
						errs <- err
						return
					}
					for _, p := range proposals {
						if p.Category != model.WebResearch || !strings.HasSuffix(p.Text, "Alex") {
							errs <- errors.New("malformed proposal: " + p.Text)
							return
						}
					}
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				t.Error(err)
			}
		})
	}
}

func TestSeededChooser_SequenceMatchesAcrossInstances(t *testing.T) {
	a, b := NewSeededChooser(7), NewSeededChooser(7)
	for i := range 50 {
		if x, y := a.IntN(10), b.IntN(10); x != y {
			t.Fatalf("draw %d: %d != %d", i, x, y)
		}
	}
}
