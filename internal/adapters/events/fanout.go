package events

import (
	"sync"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
)

const subscriberBuffer = 100

// fanout keeps the local subscriber channels of every bus channel
type fanout struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *entities.WorkspaceEvent]struct{}
}

func newFanout() *fanout {
	return &fanout{subscribers: make(map[string]map[chan *entities.WorkspaceEvent]struct{})}
}

func (f *fanout) add(channel string) (chan *entities.WorkspaceEvent, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribers[channel] == nil {
		f.subscribers[channel] = make(map[chan *entities.WorkspaceEvent]struct{})
	}
	ch := make(chan *entities.WorkspaceEvent, subscriberBuffer)
	f.subscribers[channel][ch] = struct{}{}
	return ch, len(f.subscribers[channel])
}

// remove closes ch and returns the number of subscribers left on channel
func (f *fanout) remove(channel string, ch chan *entities.WorkspaceEvent) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	subs, ok := f.subscribers[channel]
	if !ok {
		return 0
	}
	if _, ok := subs[ch]; ok {
		delete(subs, ch)
		close(ch)
	}
	if len(subs) == 0 {
		delete(f.subscribers, channel)
	}
	return len(subs)
}

// broadcast delivers without blocking and returns how many subscribers were skipped
func (f *fanout) broadcast(channel string, event *entities.WorkspaceEvent) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	dropped := 0
	for ch := range f.subscribers[channel] {
		select {
		case ch <- event:
		default:
			dropped++
		}
	}
	return dropped
}

func (f *fanout) closeChannel(channel string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers[channel] {
		close(ch)
	}
	delete(f.subscribers, channel)
}

func (f *fanout) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for channel, subs := range f.subscribers {
		for ch := range subs {
			close(ch)
		}
		delete(f.subscribers, channel)
	}
}
