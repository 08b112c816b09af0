package shutdown_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tickdown/internal/shutdown"
)

type ordered struct {
	name string

	mu    *sync.Mutex
	order *[]string
}

func (o *ordered) Shutdown() {
	o.mu.Lock()
	*o.order = append(*o.order, o.name)
	o.mu.Unlock()
}

func TestManager_ShutsDownInReverseOrder(t *testing.T) {
	m := shutdown.NewManager(nil)

	var mu sync.Mutex
	var order []string
	for _, name := range []string{"database", "audio", "timer"} {
		m.Register(name, &ordered{name: name, mu: &mu, order: &order})
	}

	m.Shutdown()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"timer", "audio", "database"}, order)
}

func TestManager_ShutdownIsIdempotent(t *testing.T) {
	m := shutdown.NewManager(nil)

	var mu sync.Mutex
	var order []string
	m.Register("once", &ordered{name: "once", mu: &mu, order: &order})

	m.Shutdown()
	m.Shutdown()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"once"}, order)
}

func TestManager_DoneClosesOnShutdown(t *testing.T) {
	m := shutdown.NewManager(nil)

	select {
	case <-m.Done():
		t.Fatal("done closed before shutdown")
	default:
	}

	m.Shutdown()

	select {
	case <-m.Done():
	case <-time.After(time.Second):
		t.Fatal("done not closed after shutdown")
	}

	assert.Error(t, m.Context().Err())
}
