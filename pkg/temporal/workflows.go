package temporal

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/leowmjw/go-temporal-chartview/pkg/source"
	"github.com/leowmjw/go-temporal-chartview/pkg/timeline"
)

const (
	// Workflow IDs
	AcquireWorkflowIDPrefix = "acquire-"

	// Activity names
	LoadSeriesActivityName = "load-series"

	// Default values
	DefaultTaskQueue       = "chartview-task-queue"
	DefaultAcquireTimeout  = 30 * time.Second
	DefaultAcquireAttempts = 1 // a failed acquisition is final
)

// AcquireRequest asks for one series acquisition on behalf of a widget
type AcquireRequest struct {
	WidgetID string      `json:"widget_id"`
	Source   source.Spec `json:"source"`
}

// AcquireResult carries the loaded series back to the caller
type AcquireResult struct {
	Series timeline.Series `json:"series"`
	Points int             `json:"points"`
}

// AcquireSeriesWorkflow loads a widget's series exactly once. There is no
// retry, the caller falls back to an empty series on failure.
func AcquireSeriesWorkflow(ctx workflow.Context, request AcquireRequest) (*AcquireResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting acquire workflow", "widgetID", request.WidgetID, "kind", request.Source.Kind)

	ao := workflow.ActivityOptions{
		ScheduleToCloseTimeout: DefaultAcquireTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: DefaultAcquireAttempts,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var series timeline.Series
	err := workflow.ExecuteActivity(ctx, LoadSeriesActivityName, request.Source).Get(ctx, &series)
	if err != nil {
		logger.Error("Failed to load series", "error", err)
		return nil, fmt.Errorf("failed to load series: %w", err)
	}
	if series == nil {
		series = timeline.Series{}
	}

	logger.Info("Acquire completed", "widgetID", request.WidgetID, "points", len(series))
	return &AcquireResult{Series: series, Points: len(series)}, nil
}

// GenerateAcquireWorkflowID creates a workflow ID for one acquisition
func GenerateAcquireWorkflowID(widgetID string) string {
	return fmt.Sprintf("%s%s-%d", AcquireWorkflowIDPrefix, widgetID, time.Now().UnixNano())
}
