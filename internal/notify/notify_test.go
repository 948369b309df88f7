package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-schoolwatch/internal/reconcile"
)

type fakeSender struct {
	name  string
	err   error
	calls int
	got   []*reconcile.PersistedJob
}

func (f *fakeSender) Name() string { return f.name }

func (f *fakeSender) Send(_ context.Context, jobs []*reconcile.PersistedJob) error {
	f.calls++
	f.got = jobs
	return f.err
}

func newJob(district, title string) *reconcile.PersistedJob {
	pj := &reconcile.PersistedJob{}
	pj.District = district
	pj.Title = title
	pj.URL = "https://example.com/job"
	pj.JobKey = reconcile.KeyOf(pj.Job)
	return pj
}

func TestShouldNotify(t *testing.T) {
	assert.False(t, ShouldNotify(nil))
	assert.False(t, ShouldNotify([]*reconcile.PersistedJob{}))
	assert.True(t, ShouldNotify([]*reconcile.PersistedJob{newJob("Mt. Lebanon School District", "Social Studies Teacher")}))
}

func TestDispatcherSendAllChannels(t *testing.T) {
	email := &fakeSender{name: "email"}
	ntfy := &fakeSender{name: "ntfy"}
	d := NewDispatcherWith(email, ntfy)

	jobs := []*reconcile.PersistedJob{newJob("Mt. Lebanon School District", "Social Studies Teacher")}
	results := d.Send(context.Background(), jobs)

	require.Len(t, results, 2)
	assert.True(t, results.AnySuccess())
	assert.Equal(t, 1, email.calls)
	assert.Equal(t, 1, ntfy.calls)
	assert.Equal(t, jobs, email.got)
}

func TestDispatcherPartialFailureStillCountsAsDelivered(t *testing.T) {
	broken := &fakeSender{name: "email", err: errors.New("smtp: connection refused")}
	working := &fakeSender{name: "ntfy"}
	d := NewDispatcherWith(broken, working)

	results := d.Send(context.Background(), []*reconcile.PersistedJob{newJob("Mt. Lebanon School District", "Social Studies Teacher")})

	assert.True(t, results.AnySuccess())
}

func TestDispatcherTotalFailure(t *testing.T) {
	a := &fakeSender{name: "email", err: errors.New("smtp: connection refused")}
	b := &fakeSender{name: "ntfy", err: errors.New("ntfy: 500")}
	d := NewDispatcherWith(a, b)

	results := d.Send(context.Background(), []*reconcile.PersistedJob{newJob("Mt. Lebanon School District", "Social Studies Teacher")})

	assert.False(t, results.AnySuccess(), "notified flag must stay false when every channel failed")
	for _, r := range results {
		assert.Error(t, r.Err)
	}
}
