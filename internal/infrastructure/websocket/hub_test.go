package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklive/backend/internal/infrastructure/config"
)

func newTestHub(t *testing.T, queue int) *Hub {
	t.Helper()
	h := NewHub(&config.WebSocketConfig{SendQueueSize: queue})
	h.Start()
	t.Cleanup(h.Stop)
	return h
}

func receive(t *testing.T, conn *Connection) []byte {
	t.Helper()
	select {
	case data, ok := <-conn.Send:
		require.True(t, ok, "send channel closed")
		return data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestHub_Broadcast(t *testing.T) {
	h := newTestHub(t, 4)

	a := h.NewConnection("a")
	b := h.NewConnection("b")
	h.Register(a)
	h.Register(b)

	require.NoError(t, h.Broadcast(map[string]int{"n": 1}))

	assert.JSONEq(t, `{"n":1}`, string(receive(t, a)))
	assert.JSONEq(t, `{"n":1}`, string(receive(t, b)))
	assert.Equal(t, 2, h.ClientCount())
}

func TestHub_RegisterReplaysLastMessage(t *testing.T) {
	h := newTestHub(t, 4)

	require.NoError(t, h.Broadcast("first"))
	require.NoError(t, h.Broadcast("second"))

	late := h.NewConnection("late")
	h.Register(late)

	var got string
	require.NoError(t, json.Unmarshal(receive(t, late), &got))
	assert.Equal(t, "second", got)
}

func TestHub_SlowClientKeepsLatest(t *testing.T) {
	h := newTestHub(t, 1)

	conn := h.NewConnection("slow")
	h.Register(conn)

	for i := 1; i <= 5; i++ {
		require.NoError(t, h.Broadcast(i))
	}
	// Broadcast 是同步交接，再注册一个连接确保 Run 已处理完前面的广播
	h.Register(h.NewConnection("barrier"))

	assert.Equal(t, "5", string(receive(t, conn)))
	assert.Equal(t, 2, h.ClientCount(), "慢连接不应被断开")
}

func TestHub_Unregister(t *testing.T) {
	h := newTestHub(t, 1)

	conn := h.NewConnection("c")
	h.Register(conn)
	h.Unregister(conn)

	_, ok := <-conn.Send
	assert.False(t, ok)
	assert.Equal(t, 0, h.ClientCount())

	// 重复注销无副作用
	h.Unregister(conn)
}

func TestHub_StopClosesConnections(t *testing.T) {
	h := NewHub(&config.WebSocketConfig{SendQueueSize: 1})
	h.Start()

	conn := h.NewConnection("c")
	h.Register(conn)

	h.Stop()
	h.Stop()

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-conn.Send:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	// 停止后的注册与广播不会阻塞
	late := h.NewConnection("late")
	h.Register(late)
	_, ok := <-late.Send
	assert.False(t, ok)
	assert.NoError(t, h.Broadcast("ignored"))
}
