package middleware

import (
	"context"
	"time"

	"homestay/internal/app/commands"
	"homestay/internal/app/queries"
)

// BusObserver receives one observation per bus message.
type BusObserver interface {
	ObserveBus(kind, key string, err error, took time.Duration)
}

func Metrics(obs BusObserver) CommandMiddleware {
	if obs == nil {
		return nil
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			start := time.Now()
			res, err := next.Dispatch(ctx, cmd)
			obs.ObserveBus("command", cmd.Key(), err, time.Since(start))
			return res, err
		})
	}
}

func QueryMetrics(obs BusObserver) QueryMiddleware {
	if obs == nil {
		return nil
	}
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := next.Ask(ctx, q)
			obs.ObserveBus("query", q.Key(), err, time.Since(start))
			return res, err
		})
	}
}
