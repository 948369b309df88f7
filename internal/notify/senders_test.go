package notify

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-schoolwatch/internal/config"
	"go-schoolwatch/internal/reconcile"
)

func TestEmailBuildMessage(t *testing.T) {
	e := NewEmailSender(&config.Config{
		SMTPHost:  "smtp.gmail.com",
		SMTPPort:  465,
		EmailFrom: "watcher@example.com",
		EmailTo:   "me@example.com",
	})

	jobs := []*reconcile.PersistedJob{
		newJob("Mt. Lebanon School District", "Social Studies Teacher - High School"),
		newJob("Bethel Park School District", "History Teacher, Grades 6-12"),
	}
	msg := e.buildMessage(jobs)

	assert.Contains(t, msg, "From: watcher@example.com")
	assert.Contains(t, msg, "To: me@example.com")
	wantSubject := mime.QEncoding.Encode("utf-8", "🎓 2 Social Studies Teaching Position(s) Found!")
	assert.Contains(t, msg, "Subject: "+wantSubject)
	assert.NotContains(t, msg, "Subject: 🎓", "raw UTF-8 must not leak into the header")
	assert.Contains(t, msg, "multipart/alternative")
	assert.Contains(t, msg, "text/plain")
	assert.Contains(t, msg, "text/html")
	assert.Contains(t, msg, "Social Studies Teacher - High School")
	assert.Contains(t, msg, "History Teacher, Grades 6-12")
	assert.Contains(t, msg, `<a href="https://example.com/job">View Posting</a>`)
}

func TestNtfySend(t *testing.T) {
	var gotTitle, gotPriority, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/job-alerts", r.URL.Path)
		gotTitle = r.Header.Get("Title")
		gotPriority = r.Header.Get("Priority")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
	}))
	defer srv.Close()

	n := NewNtfySender("job-alerts")
	n.base = srv.URL

	err := n.Send(context.Background(), []*reconcile.PersistedJob{
		newJob("Mt. Lebanon School District", "Social Studies Teacher"),
	})
	require.NoError(t, err)

	assert.Equal(t, "1 Social Studies Position(s) Found!", gotTitle)
	assert.Equal(t, "high", gotPriority)
	assert.Contains(t, gotBody, "Social Studies Teacher (Mt. Lebanon School District)")
}

func TestNtfySendTruncatesLongBatches(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
	}))
	defer srv.Close()

	n := NewNtfySender("job-alerts")
	n.base = srv.URL

	var jobs []*reconcile.PersistedJob
	for i := 0; i < 8; i++ {
		jobs = append(jobs, newJob("Mt. Lebanon School District", fmt.Sprintf("Opening %d", i)))
	}
	require.NoError(t, n.Send(context.Background(), jobs))
	assert.Contains(t, gotBody, "... and 3 more")
}

func TestNtfySendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	n := NewNtfySender("job-alerts")
	n.base = srv.URL

	err := n.Send(context.Background(), []*reconcile.PersistedJob{
		newJob("Mt. Lebanon School District", "Social Studies Teacher"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
