package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerRegisterAndUnregister(t *testing.T) {
	m := NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	client := NewClient("c1", nil)
	require.True(t, m.Register(client))
	require.Eventually(t, func() bool { return m.Count() == 1 }, time.Second, time.Millisecond)

	m.Unregister(client)
	require.Eventually(t, func() bool { return m.Count() == 0 }, time.Second, time.Millisecond)
	assert.False(t, client.Enqueue([]byte("late")))
}

func TestManagerStoppedDoesNotBlock(t *testing.T) {
	m := NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	cancel()

	select {
	case <-m.done:
	case <-time.After(time.Second):
		t.Fatal("manager loop did not stop")
	}

	returned := make(chan bool, 1)
	go func() {
		client := NewClient("c1", nil)
		m.Unregister(client)
		returned <- m.Register(client)
	}()

	select {
	case ok := <-returned:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("unregister blocked after shutdown")
	}
}
