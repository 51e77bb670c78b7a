package goroutine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ticketdash/internal/shared/logger"
)

func TestProtect(t *testing.T) {
	log := logger.NewNop()

	assert.True(t, Protect(log, "ok", func() {}))
	assert.False(t, Protect(log, "boom", func() { panic("parse exploded") }))
}

func TestSafeGoRecovers(t *testing.T) {
	done := make(chan struct{})

	SafeGo(logger.NewNop(), "publisher", func() {
		defer close(done)
		panic("redis gone")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("goroutine did not run")
	}
}
