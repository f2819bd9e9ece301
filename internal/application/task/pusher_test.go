package task

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPusher struct {
	mu     sync.Mutex
	pushed []SnapshotDTO
}

func (p *recordingPusher) PushSnapshot(snapshot SnapshotDTO) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushed = append(p.pushed, snapshot)
	return nil
}

func (p *recordingPusher) last() (SnapshotDTO, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pushed) == 0 {
		return SnapshotDTO{}, false
	}
	return p.pushed[len(p.pushed)-1], true
}

func TestLivePublisher_ForwardsSnapshots(t *testing.T) {
	f := newFixture(t)
	pusher := &recordingPusher{}

	p := NewLivePublisher(f.svc, pusher)
	p.Start()
	p.Start()
	defer p.Stop()

	_, err := f.svc.AddTask(context.Background(), "pushed task")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		dto, ok := pusher.last()
		return ok && len(dto.Tasks) == 1 && dto.Tasks[0].Description == "pushed task"
	}, waitTimeout, 10*time.Millisecond)

	dto, _ := pusher.last()
	assert.Equal(t, "all", dto.Filter)
	assert.False(t, dto.Tasks[0].IsCompleted)
}

func TestLivePublisher_StopIsIdempotent(t *testing.T) {
	f := newFixture(t)
	p := NewLivePublisher(f.svc, &recordingPusher{})

	p.Stop()
	p.Start()
	p.Stop()
	p.Stop()
}
