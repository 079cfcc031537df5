package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/observability"
)

// Registry keeps the workspaces of live sessions in memory
type Registry struct {
	opts Options
	now  func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

// NewRegistry creates an empty registry
func NewRegistry(opts Options) *Registry {
	return &Registry{
		opts:       opts,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// Get returns the workspace of sessionID, creating and initializing it on first use
func (r *Registry) Get(ctx context.Context, sessionID string) (*Workspace, error) {
	r.mu.Lock()
	ws, ok := r.workspaces[sessionID]
	if !ok {
		ws = New(sessionID, r.opts)
		r.workspaces[sessionID] = ws
	}
	r.mu.Unlock()

	ws.Touch(r.now())
	if err := ws.Init(ctx); err != nil {
		return ws, err
	}
	return ws, nil
}

// Len returns the number of live workspaces
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// Sweep drops the workspaces idle for longer than maxIdle. Their persisted
// session survives and is restored on the next request.
func (r *Registry) Sweep(ctx context.Context, maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	var evicted []string
	for id, ws := range r.workspaces {
		if ws.idleSince().Before(cutoff) {
			delete(r.workspaces, id)
			evicted = append(evicted, id)
		}
	}
	r.mu.Unlock()

	if len(evicted) > 0 {
		observability.LoggerFromContext(ctx).Debug().Int("count", len(evicted)).Msg("Evicted idle workspaces")
	}
	return len(evicted)
}

// StartSweeper evicts idle workspaces every interval until ctx is done
func (r *Registry) StartSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Sweep(ctx, maxIdle)
			}
		}
	}()
}
