package loaders

import (
	"context"
	"fmt"
	"strconv"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
)

type ctxKey string

const loadersKey ctxKey = "dataloaders"

// PatientSource lists the patients a lookup can resolve against
type PatientSource interface {
	List(ctx context.Context) ([]entities.Patient, error)
}

// Loaders contains the per-request dataloaders
type Loaders struct {
	PatientLoader *dataloader.Loader[int64, *entities.Patient]
}

// NewLoaders creates a new instance of Loaders. Every patient id requested
// while rendering one response is resolved by a single list read.
func NewLoaders(patients PatientSource) *Loaders {
	return &Loaders{
		PatientLoader: dataloader.NewBatchedLoader(func(ctx context.Context, keys []int64) []*dataloader.Result[*entities.Patient] {
			results := make([]*dataloader.Result[*entities.Patient], len(keys))
			list, err := patients.List(ctx)

			patientMap := make(map[int64]*entities.Patient, len(list))
			if err == nil {
				for i := range list {
					patientMap[list[i].ID] = &list[i]
				}
			}

			for i, key := range keys {
				if err != nil {
					results[i] = &dataloader.Result[*entities.Patient]{Error: err}
				} else if p, ok := patientMap[key]; ok {
					results[i] = &dataloader.Result[*entities.Patient]{Data: p}
				} else {
					results[i] = &dataloader.Result[*entities.Patient]{Error: fmt.Errorf("patient %d not found", key)}
				}
			}
			return results
		}),
	}
}

// For returns the loaders of ctx, or nil
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// WithLoaders returns a new context with the loaders attached
func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, loaders)
}

// PatientNames resolves display names of ids. Unknown patients are shown as "Patient #id".
func (l *Loaders) PatientNames(ctx context.Context, ids []int64) map[int64]string {
	names := make(map[int64]string, len(ids))
	patients, errs := l.PatientLoader.LoadMany(ctx, ids)()
	for i, id := range ids {
		if i < len(patients) && patients[i] != nil && (len(errs) <= i || errs[i] == nil) {
			names[id] = patients[i].FirstName + " " + patients[i].LastName
			continue
		}
		names[id] = "Patient #" + strconv.FormatInt(id, 10)
	}
	return names
}
