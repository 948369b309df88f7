// Decide whether a run notifies and fan out to configured channels
// A job is only marked notified after at least one channel succeeded

package notify

import (
	"context"
	"log"

	"go-schoolwatch/internal/config"
	"go-schoolwatch/internal/reconcile"
)

// Sender is one notification channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, jobs []*reconcile.PersistedJob) error
}

// ShouldNotify is the gate: a dispatch happens only when the run produced
// at least one new job.
func ShouldNotify(newJobs []*reconcile.PersistedJob) bool {
	return len(newJobs) > 0
}

type Result struct {
	Channel string
	Err     error
}

type Results []Result

// AnySuccess reports whether at least one channel delivered. That is the
// bar for flipping the notified flag; a partial failure still counts as
// delivered so the same jobs are not re-sent forever on one broken channel.
func (rs Results) AnySuccess() bool {
	for _, r := range rs {
		if r.Err == nil {
			return true
		}
	}
	return false
}

// Dispatcher fans a new-jobs batch out to every configured channel.
type Dispatcher struct {
	senders []Sender
}

// NewDispatcher builds senders for whichever channels the config enables.
func NewDispatcher(cfg *config.Config) *Dispatcher {
	d := &Dispatcher{}

	if cfg.EmailFrom != "" && cfg.EmailPassword != "" {
		d.senders = append(d.senders, NewEmailSender(cfg))
	}
	if cfg.NtfyTopic != "" {
		d.senders = append(d.senders, NewNtfySender(cfg.NtfyTopic))
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		bot, err := NewTelegramSender(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Failed to init Telegram sender: %v", err)
		} else {
			d.senders = append(d.senders, bot)
		}
	}

	return d
}

// NewDispatcherWith wires explicit senders, used by tests.
func NewDispatcherWith(senders ...Sender) *Dispatcher {
	return &Dispatcher{senders: senders}
}

func (d *Dispatcher) Configured() int {
	return len(d.senders)
}

// Send dispatches to every channel and reports per-channel outcomes.
func (d *Dispatcher) Send(ctx context.Context, jobs []*reconcile.PersistedJob) Results {
	results := make(Results, 0, len(d.senders))
	for _, s := range d.senders {
		err := s.Send(ctx, jobs)
		if err != nil {
			log.Printf("⚠️ %s notification failed: %v", s.Name(), err)
		} else {
			log.Printf("✅ %s notification sent", s.Name())
		}
		results = append(results, Result{Channel: s.Name(), Err: err})
	}
	return results
}

// TestJobs is the canned batch used to verify channel configuration.
func TestJobs() []*reconcile.PersistedJob {
	job := &reconcile.PersistedJob{}
	job.Title = "Test: Social Studies Teacher Position"
	job.District = "Test District"
	job.URL = "https://example.com/test-job"
	job.JobKey = reconcile.KeyOf(job.Job)
	return []*reconcile.PersistedJob{job}
}
