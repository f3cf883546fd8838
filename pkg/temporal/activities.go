package temporal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"

	"github.com/leowmjw/go-temporal-chartview/pkg/source"
	"github.com/leowmjw/go-temporal-chartview/pkg/timeline"
)

// Activities holds the dependencies of the acquisition activities
type Activities struct {
	logger  *slog.Logger
	builder source.Builder
}

// NewActivities creates the activities backed by builder, usually a
// source.Factory
func NewActivities(logger *slog.Logger, builder source.Builder) *Activities {
	return &Activities{
		logger:  logger,
		builder: builder,
	}
}

// LoadSeriesActivity builds the loader for spec and runs it once
func (a *Activities) LoadSeriesActivity(ctx context.Context, spec source.Spec) (timeline.Series, error) {
	info := activity.GetInfo(ctx)
	a.logger.Info("Loading series", "workflowID", info.WorkflowExecution.ID, "kind", spec.Kind)

	loader, err := a.builder.Build(spec)
	if err != nil {
		a.logger.Error("Failed to build loader", "error", err)
		if errors.Is(err, source.ErrUnknownKind) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), "UnknownSourceKind", err)
		}
		return nil, fmt.Errorf("failed to build loader: %w", err)
	}

	series, err := loader.Load(ctx)
	if err != nil {
		a.logger.Error("Failed to load series", "error", err)
		return nil, fmt.Errorf("failed to load series: %w", err)
	}

	a.logger.Info("Successfully loaded series", "workflowID", info.WorkflowExecution.ID, "points", len(series))
	return series, nil
}

// Register adds the acquisition workflow and activities to a worker
func Register(r worker.Registry, activities *Activities) {
	r.RegisterWorkflow(AcquireSeriesWorkflow)
	r.RegisterActivityWithOptions(activities.LoadSeriesActivity, activity.RegisterOptions{
		Name: LoadSeriesActivityName,
	})
}
