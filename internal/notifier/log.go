package notifier

import (
	"log/slog"

	"github.com/amishk599/bidcraft/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes generated proposals to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each proposal via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each proposal's metadata. The text itself is logged at debug level.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(proposals []model.Proposal) error {
	for _, p := range proposals {
		n.logger.Info("proposal generated",
			"id", p.ID,
			"version", p.Version,
			"category", p.Category,
			"words", p.WordCount,
		)
		n.logger.Debug("proposal text", "id", p.ID, "text", p.Text)
	}
	return nil
}
