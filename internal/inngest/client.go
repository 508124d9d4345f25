package inngest

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"
)

// New registers the ladder functions with the Inngest client.
func New(inngestClient inngestgo.Client, sweeper Sweeper) InngestClient {
	c := &client{
		inngestClient: inngestClient,
		sweeper:       sweeper,
	}
	c.createSweepFunction()
	return c
}

func (i *client) createSweepFunction() inngestgo.ServableFunction {
	config := inngestgo.FunctionOpts{
		ID:   "ladder-timeout-sweep",
		Name: "Expire unanswered challenges",
	}
	f, err := inngestgo.CreateFunction(
		i.inngestClient,
		config,
		inngestgo.CronTrigger(SweepSchedule),
		func(ctx context.Context, input inngestgo.Input[map[string]any]) (any, error) {
			// Steps are retried by Inngest on failure.
			expired, err := step.Run(ctx, "expire-challenges", func(ctx context.Context) (int, error) {
				return i.sweeper.Sweep(ctx, false)
			})
			if err != nil {
				return nil, err
			}
			log.Info("Scheduled sweep finished", "expired", expired)
			return SweepResult{Expired: expired}, nil
		},
	)
	if err != nil {
		log.Fatal("Failed to create function", "error", err)
	}
	return f
}

func (i *client) Serve() http.Handler {
	return i.inngestClient.Serve()
}
