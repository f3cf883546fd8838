package temporal

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"

	"github.com/leowmjw/go-temporal-chartview/pkg/source"
	"github.com/leowmjw/go-temporal-chartview/pkg/timeline"
)

// WorkflowLoader loads a series by running AcquireSeriesWorkflow and waiting
// for its result
type WorkflowLoader struct {
	client    client.Client
	taskQueue string
	widgetID  string
	spec      source.Spec
}

// NewWorkflowLoader creates a loader that acquires spec through Temporal
func NewWorkflowLoader(c client.Client, taskQueue, widgetID string, spec source.Spec) *WorkflowLoader {
	if taskQueue == "" {
		taskQueue = DefaultTaskQueue
	}
	return &WorkflowLoader{
		client:    c,
		taskQueue: taskQueue,
		widgetID:  widgetID,
		spec:      spec,
	}
}

func (l *WorkflowLoader) Load(ctx context.Context) (timeline.Series, error) {
	workflowOptions := client.StartWorkflowOptions{
		ID:        GenerateAcquireWorkflowID(l.widgetID),
		TaskQueue: l.taskQueue,
	}

	request := AcquireRequest{WidgetID: l.widgetID, Source: l.spec}
	run, err := l.client.ExecuteWorkflow(ctx, workflowOptions, AcquireSeriesWorkflow, request)
	if err != nil {
		return nil, fmt.Errorf("failed to start acquire workflow: %w", err)
	}

	var result AcquireResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, fmt.Errorf("acquire workflow %s failed: %w", workflowOptions.ID, err)
	}
	if result.Series == nil {
		return timeline.Series{}, nil
	}
	return result.Series, nil
}

// WorkflowBuilder hands out WorkflowLoaders. Specs are checked up front so
// a bad kind fails at mount time instead of inside a workflow.
type WorkflowBuilder struct {
	client    client.Client
	taskQueue string
}

// NewWorkflowBuilder creates a source.Builder that routes loads through Temporal
func NewWorkflowBuilder(c client.Client, taskQueue string) *WorkflowBuilder {
	return &WorkflowBuilder{client: c, taskQueue: taskQueue}
}

// Build returns a WorkflowLoader keyed by the source's series name
func (b *WorkflowBuilder) Build(spec source.Spec) (source.Loader, error) {
	spec = spec.WithDefaults()
	switch spec.Kind {
	case source.KindHTTP, source.KindSynthetic, source.KindMemory:
	default:
		return nil, fmt.Errorf("%w: %q", source.ErrUnknownKind, spec.Kind)
	}

	widgetID := spec.Name
	if widgetID == "" {
		widgetID = string(spec.Kind)
	}
	return NewWorkflowLoader(b.client, b.taskQueue, widgetID, spec), nil
}
