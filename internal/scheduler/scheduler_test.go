package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPublisher struct {
	calls chan struct{}
	err   error
}

func (p *countingPublisher) Publish(context.Context) error {
	p.calls <- struct{}{}
	return p.err
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := NewScheduler("every monday", time.UTC, &countingPublisher{}, nil)
	assert.Error(t, s.Start())
}

func TestPublishSummaryCallsPublisher(t *testing.T) {
	pub := &countingPublisher{calls: make(chan struct{}, 2), err: errors.New("offline")}
	s := NewScheduler("0 20 1 * *", time.UTC, pub, nil)

	s.publishSummary()
	pub.err = nil
	s.publishSummary()

	assert.Len(t, pub.calls, 2)
}

func TestStartStop(t *testing.T) {
	s := NewScheduler("@every 1h", time.UTC, &countingPublisher{calls: make(chan struct{}, 1)}, nil)
	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 1)
	s.Stop()
}
