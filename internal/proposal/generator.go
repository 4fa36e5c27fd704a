package proposal

import (
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/amishk599/bidcraft/internal/classify"
	"github.com/amishk599/bidcraft/internal/extract"
	"github.com/amishk599/bidcraft/internal/model"
	"github.com/amishk599/bidcraft/internal/templates"
)

// Classifier maps a job description to a category.
type Classifier interface {
	Classify(text string) model.Category
}

// FeatureExtractor pulls features out of a job description.
type FeatureExtractor interface {
	Extract(text string) model.Features
}

// Generator runs the full pipeline. It holds no mutable state of its own and
// is safe for concurrent use with either built-in Chooser.
type Generator struct {
	classifier Classifier
	extractor  FeatureExtractor
	assembler  *Assembler
	logger     *slog.Logger
}

// NewGenerator wires the pipeline from its parts. A nil logger discards output.
func NewGenerator(classifier Classifier, extractor FeatureExtractor, assembler *Assembler, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Generator{
		classifier: classifier,
		extractor:  extractor,
		assembler:  assembler,
		logger:     logger,
	}
}

// New builds a Generator backed by the keyword classifier and extractor over store.
func New(store *templates.Store, chooser Chooser, logger *slog.Logger) *Generator {
	return NewGenerator(
		classify.NewKeywordClassifier(store.Keywords()),
		extract.NewExtractor(store.Vocabulary),
		NewAssembler(store, chooser),
		logger,
	)
}

// Generate produces req.Variants proposals (at least one) for the job
// description. Classification and extraction run once; only the wording
// differs between variants. A blank description returns
// model.ErrEmptyJobDescription.
func (g *Generator) Generate(req model.Request) ([]model.Proposal, error) {
	if strings.TrimSpace(req.JobDescription) == "" {
		return nil, model.ErrEmptyJobDescription
	}

	n := req.Variants
	if n < 1 {
		n = 1
	}

	category := g.classifier.Classify(req.JobDescription)
	features := g.extractor.Extract(req.JobDescription)

	g.logger.Debug("generating proposals",
		"category", category,
		"variants", n,
		"deliverable", features.Deliverable,
		"tool", features.Tool,
		"urgent", features.Urgent,
	)

	proposals := make([]model.Proposal, 0, n)
	for i := 1; i <= n; i++ {
		p := g.assembler.Assemble(category, features, req.Experience, req.AuthorName)
		p.ID = uuid.NewString()
		p.Version = i
		proposals = append(proposals, p)
	}
	return proposals, nil
}
