package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/bidcraft/internal/model"
	"github.com/amishk599/bidcraft/internal/ratelimit"
	"github.com/amishk599/bidcraft/internal/retry"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// Slack rejects section text longer than 3000 characters and messages with
// more than 50 blocks.
const (
	maxSectionText  = 3000
	maxTextSections = 40
	codeFence       = "```"
)

// slackMessageGap is the minimum spacing between two posts to the same webhook.
const slackMessageGap = 500 * time.Millisecond

// SlackNotifier posts generated proposals to a Slack channel via Incoming
// Webhooks, so they can be reviewed or copied from a phone.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *ratelimit.KeyedLimiter
	policy     retry.Policy
}

// NewSlackNotifier returns a notifier that posts each proposal to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
		limiter:    ratelimit.NewKeyedLimiter(slackMessageGap),
		policy:     retry.DefaultPolicy,
	}
}

// Notify sends each proposal as a separate Slack message using Block Kit.
// Returns an error only if ALL messages fail. Individual failures are logged.
func (s *SlackNotifier) Notify(proposals []model.Proposal) error {
	if len(proposals) == 0 {
		return nil
	}

	ctx := context.Background()
	failures := 0
	for _, p := range proposals {
		if err := s.limiter.Wait(ctx, s.webhookURL); err != nil {
			return err
		}

		err := retry.Do(ctx, s.policy, s.logger, func(ctx context.Context) error {
			return s.sendMessage(ctx, p)
		})
		if err != nil {
			s.logger.Error("slack notification failed", "id", p.ID, "version", p.Version, "error", err)
			failures++
		}
	}

	sent := len(proposals) - failures
	if failures == len(proposals) {
		return fmt.Errorf("all %d slack notifications failed", failures)
	}
	s.logger.Info("slack notifications complete", "sent", sent, "failed", failures)
	return nil
}

func (s *SlackNotifier) sendMessage(ctx context.Context, p model.Proposal) error {
	body, err := json.Marshal(buildPayload(p))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		httpErr := &model.HTTPError{StatusCode: resp.StatusCode, Err: fmt.Errorf("slack webhook rejected message")}
		if resp.StatusCode == http.StatusTooManyRequests {
			secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
			if secs <= 0 {
				secs = 1
			}
			httpErr.RetryAfter = time.Duration(secs) * time.Second
			s.logger.Warn("slack rate limited", "retry_after_secs", secs)
		}
		return httpErr
	}

	s.logger.Info("slack message sent", "id", p.ID, "version", p.Version)
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type   string      `json:"type"`
	Text   *slackText  `json:"text,omitempty"`
	Fields []slackText `json:"fields,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SendTestMessage sends a sample proposal to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	text := "Hi,\n\nThis is a test proposal from bidcraft. If you can read this, notifications work.\n\nLet me know."
	return n.Notify([]model.Proposal{{
		ID:        "test-001",
		Version:   1,
		Text:      text,
		Category:  model.DefaultCategory,
		WordCount: len(strings.Fields(text)),
	}})
}

func buildPayload(p model.Proposal) slackPayload {
	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: fmt.Sprintf("📝 %s proposal (v%d)", p.Category.Title(), p.Version)},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Job type:*\n" + p.Category.Title()},
				{Type: "mrkdwn", Text: "*Words:*\n" + strconv.Itoa(p.WordCount)},
			},
		},
	}
	for _, chunk := range splitText(p.Text, maxSectionText-len(codeFence)*2) {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: codeFence + chunk + codeFence},
		})
	}
	blocks = append(blocks, slackBlock{Type: "divider"})
	return slackPayload{Blocks: blocks}
}

// splitText breaks text into chunks of at most limit runes, preferring
// paragraph boundaries. At most maxTextSections chunks are returned; the last
// one is marked with an ellipsis when text is cut.
func splitText(text string, limit int) []string {
	var chunks []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		runes := []rune(para)
		sep := 0
		if curLen > 0 {
			sep = 2
		}
		if curLen+sep+len(runes) <= limit {
			if sep > 0 {
				cur.WriteString("\n\n")
			}
			cur.WriteString(para)
			curLen += sep + len(runes)
			continue
		}
		flush()
		for len(runes) > limit {
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		cur.WriteString(string(runes))
		curLen = len(runes)
	}
	flush()

	if len(chunks) > maxTextSections {
		chunks = chunks[:maxTextSections]
		last := []rune(chunks[maxTextSections-1])
		if len(last) >= limit {
			last = last[:limit-1]
		}
		chunks[maxTextSections-1] = string(last) + "…"
	}
	return chunks
}
