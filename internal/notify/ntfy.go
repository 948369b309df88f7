package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go-schoolwatch/internal/reconcile"
)

const ntfyPushLimit = 5

// NtfySender posts a short push notification to an ntfy.sh topic.
type NtfySender struct {
	topic  string
	base   string
	client *http.Client
}

func NewNtfySender(topic string) *NtfySender {
	return &NtfySender{
		topic:  topic,
		base:   "https://ntfy.sh",
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *NtfySender) Name() string { return "push" }

func (n *NtfySender) Send(ctx context.Context, jobs []*reconcile.PersistedJob) error {
	if len(jobs) == 0 {
		return nil
	}

	var body strings.Builder
	limit := len(jobs)
	if limit > ntfyPushLimit {
		limit = ntfyPushLimit
	}
	for _, job := range jobs[:limit] {
		fmt.Fprintf(&body, "* %s (%s)\n", job.Title, job.District)
	}
	if len(jobs) > ntfyPushLimit {
		fmt.Fprintf(&body, "\n... and %d more", len(jobs)-ntfyPushLimit)
	}

	url := fmt.Sprintf("%s/%s", n.base, n.topic)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body.String()))
	if err != nil {
		return err
	}
	//ntfy rejects emoji in the Title header, keep it plain
	req.Header.Set("Title", fmt.Sprintf("%d Social Studies Position(s) Found!", len(jobs)))
	req.Header.Set("Priority", "high")
	req.Header.Set("Tags", "mortar_board,briefcase")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("http POST: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}
