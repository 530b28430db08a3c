package inngest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"
	"github.com/mauv0809/clubhouse/internal/club"
)

// New registers the dues functions on inngestClient.
func New(inngestClient inngestgo.Client, dues *DuesJob) (InngestClient, error) {
	c := &client{
		inngestClient: inngestClient,
		dues:          dues,
	}
	if err := c.createDuesFunctions(); err != nil {
		return nil, err
	}
	return c, nil
}

// createDuesFunctions registers the monthly cron and the on-demand trigger.
// Both run the same steps so a retried run skips clubs already done.
func (i *client) createDuesFunctions() error {
	_, err := inngestgo.CreateFunction(
		i.inngestClient,
		inngestgo.FunctionOpts{ID: "monthly-dues", Name: "Generate monthly dues"},
		inngestgo.CronTrigger(duesCron),
		i.generateDues,
	)
	if err != nil {
		return fmt.Errorf("failed to create monthly dues function: %w", err)
	}
	_, err = inngestgo.CreateFunction(
		i.inngestClient,
		inngestgo.FunctionOpts{ID: "monthly-dues-on-demand", Name: "Generate monthly dues on demand"},
		inngestgo.EventTrigger(EventGenerateDues, nil),
		i.generateDues,
	)
	if err != nil {
		return fmt.Errorf("failed to create on-demand dues function: %w", err)
	}
	return nil
}

func (i *client) generateDues(ctx context.Context, input inngestgo.Input[map[string]any]) (any, error) {
	// The period is a step so replays after midnight on the last day keep the month.
	period, err := step.Run(ctx, "period", func(ctx context.Context) (string, error) {
		return i.dues.Period(), nil
	})
	if err != nil {
		return nil, err
	}
	clubs, err := step.Run(ctx, "list-clubs", func(ctx context.Context) ([]club.Club, error) {
		return i.dues.ListClubs(ctx)
	})
	if err != nil {
		return nil, err
	}

	total := 0
	for _, c := range clubs {
		n, err := step.Run(ctx, "generate-dues-"+c.ID, func(ctx context.Context) (int, error) {
			return i.dues.Generate(ctx, c.ID, period)
		})
		if err != nil {
			return nil, err
		}
		total += n
	}
	log.Info("Monthly dues run finished", "period", period, "clubs", len(clubs), "created", total)
	return map[string]any{"period": period, "clubs": len(clubs), "created": total}, nil
}

func (i *client) Serve() http.Handler {
	return i.inngestClient.Serve()
}

func (i *client) SendEvent(ctx context.Context, name string, data map[string]any) error {
	if _, err := i.inngestClient.Send(ctx, inngestgo.Event{Name: name, Data: data}); err != nil {
		return fmt.Errorf("send inngest event %s: %w", name, err)
	}
	return nil
}
