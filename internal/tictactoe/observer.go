package tictactoe

import (
	"sync"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

// Observer receives engine events synchronously and in order. Notify must
// not call engine commands; reading Snapshot is fine.
type Observer interface {
	Notify(event entity.Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(event entity.Event)

func (that ObserverFunc) Notify(event entity.Event) {
	that(event)
}

type observerSet struct {
	mu     sync.Mutex
	nextID int
	items  map[int]Observer
}

func (that *observerSet) add(observer Observer) func() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.items == nil {
		that.items = make(map[int]Observer)
	}

	id := that.nextID
	that.nextID++
	that.items[id] = observer

	var once sync.Once
	return func() {
		once.Do(func() {
			that.mu.Lock()
			delete(that.items, id)
			that.mu.Unlock()
		})
	}
}

// list returns observers in subscription order.
func (that *observerSet) list() []Observer {
	that.mu.Lock()
	defer that.mu.Unlock()

	out := make([]Observer, 0, len(that.items))
	for id := 0; id < that.nextID; id++ {
		if observer, ok := that.items[id]; ok {
			out = append(out, observer)
		}
	}

	return out
}
