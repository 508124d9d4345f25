package inngest

import (
	"context"
	"net/http"
)

type InngestClient interface {
	Serve() http.Handler
}

// Sweeper expires overdue challenges. Implemented by the processor.
type Sweeper interface {
	Sweep(ctx context.Context, dryRun bool) (int, error)
}
