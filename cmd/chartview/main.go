package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	"github.com/leowmjw/go-temporal-chartview/pkg/hcl"
	"github.com/leowmjw/go-temporal-chartview/pkg/render"
	"github.com/leowmjw/go-temporal-chartview/pkg/source"
	"github.com/leowmjw/go-temporal-chartview/pkg/temporal"
	"github.com/leowmjw/go-temporal-chartview/pkg/timeline"
	"github.com/leowmjw/go-temporal-chartview/pkg/view"
)

func main() {
	// Logs go to stderr so -json output stays clean
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Define command line flags
	var (
		path        string
		widgetName  string
		timeFrame   string
		tab         string
		address     string
		namespace   string
		taskQueue   string
		svgDir      string
		displayJSON bool
		timeout     time.Duration
	)

	flag.StringVar(&path, "path", "", "Path to HCL widget file or directory (required)")
	flag.StringVar(&widgetName, "widget", "", "Only render the named widget")
	flag.StringVar(&timeFrame, "time-frame", "", "Time frame to select after loading, e.g. 1d, 3d, 1w, 1m")
	flag.StringVar(&tab, "tab", "", "Tab to select after loading")
	flag.StringVar(&address, "address", "", "Address of Temporal server; empty loads series in-process")
	flag.StringVar(&namespace, "namespace", "default", "Temporal namespace")
	flag.StringVar(&taskQueue, "task-queue", temporal.DefaultTaskQueue, "Temporal task queue")
	flag.StringVar(&svgDir, "svg", "", "Directory to write <widget>.svg charts to")
	flag.BoolVar(&displayJSON, "json", false, "Display snapshots as JSON")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for loading each widget")
	flag.Parse()

	// Validate required parameters
	if path == "" {
		logger.Error("Path parameter is required")
		flag.Usage()
		os.Exit(1)
	}

	configs, err := hcl.LoadWidgets(path)
	if err != nil {
		logger.Error("Failed to load widgets", "path", path, "error", err)
		os.Exit(1)
	}

	var builder source.Builder = source.NewFactory(logger, source.NewMemoryStore(), nil)
	if address != "" {
		c, err := client.Dial(client.Options{
			HostPort:  address,
			Namespace: namespace,
		})
		if err != nil {
			logger.Error("Unable to create Temporal client", "error", err)
			os.Exit(1)
		}
		defer c.Close()
		builder = temporal.NewWorkflowBuilder(c, taskQueue)
	}

	if svgDir != "" {
		if err := os.MkdirAll(svgDir, 0o755); err != nil {
			logger.Error("Failed to create SVG directory", "dir", svgDir, "error", err)
			os.Exit(1)
		}
	}

	actions := selectedActions(timeFrame, tab)
	rendered := 0
	for _, cfg := range configs {
		if widgetName != "" && cfg.Name != widgetName {
			continue
		}
		rendered++

		snap, err := loadWidget(builder, cfg, actions, timeout, logger)
		if err != nil {
			logger.Error("Failed to load widget", "widget", cfg.Name, "error", err)
			continue
		}

		displaySnapshot(cfg, snap, displayJSON, logger)

		if svgDir != "" {
			path, err := svgPath(svgDir, cfg.Name)
			if err != nil {
				logger.Error("Failed to write chart", "widget", cfg.Name, "error", err)
				continue
			}
			if err := writeSVG(path, snap); err != nil {
				logger.Error("Failed to write chart", "widget", cfg.Name, "error", err)
			}
		}
	}

	if rendered == 0 {
		logger.Error("No widgets matched", "widget", widgetName)
		os.Exit(1)
	}
}

// selectedActions turns the selection flags into actions, in dispatch order
func selectedActions(timeFrame, tab string) []view.Action {
	var actions []view.Action
	if timeFrame != "" {
		actions = append(actions, view.Action{Type: view.SelectTimeFrameAction, Frame: timeline.TimeFrame(timeFrame)})
	}
	if tab != "" {
		actions = append(actions, view.Action{Type: view.SelectTabAction, Tab: view.Tab(tab)})
	}
	return actions
}

// loadWidget mounts a model for cfg, waits for its series and applies actions
func loadWidget(builder source.Builder, cfg view.Config, actions []view.Action, timeout time.Duration, logger *slog.Logger) (view.Snapshot, error) {
	loader, err := builder.Build(cfg.Source)
	if err != nil {
		return view.Snapshot{}, err
	}

	opts, err := cfg.ModelOptions(0)
	if err != nil {
		return view.Snapshot{}, err
	}
	// No loading placeholder on the command line
	opts.LoadingDelay = 0

	widgetLogger := logger.With("widget", cfg.Name)
	model := view.NewModel(widgetLogger, opts)
	defer model.Unmount()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	kind := cfg.Source.WithDefaults().Kind
	acq := model.Mount(ctx, source.NewDataSource(kind, loader, widgetLogger, nil))
	if err := acq.Wait(ctx); err != nil {
		return view.Snapshot{}, fmt.Errorf("timed out waiting for series: %w", err)
	}

	for _, action := range actions {
		if err := model.Dispatch(action); err != nil {
			return view.Snapshot{}, err
		}
	}
	return model.Snapshot(), nil
}

// displaySnapshot shows a widget in human-readable or JSON format
func displaySnapshot(cfg view.Config, snap view.Snapshot, jsonOutput bool, logger *slog.Logger) {
	if jsonOutput {
		resultJSON, err := json.MarshalIndent(map[string]interface{}{
			"widget":   cfg.Name,
			"title":    render.Title(snap.Last, cfg.Currency),
			"subtitle": render.Subtitle(snap.Delta),
			"snapshot": snap,
		}, "", "  ")
		if err != nil {
			logger.Error("Failed to marshal snapshot to JSON", "error", err)
			fmt.Printf("%+v\n", snap)
		} else {
			fmt.Println(string(resultJSON))
		}
		return
	}

	fmt.Printf("%s (%s)\n", cfg.Title, snap.State.TimeFrame)
	fmt.Printf("  %s\n", render.Title(snap.Last, cfg.Currency))
	fmt.Printf("  %s\n", render.Subtitle(snap.Delta))
	if text := view.PanelText(snap.State.ActiveTab); text != "" {
		fmt.Printf("  %s\n", text)
	}
	for _, p := range snap.FilteredSeries {
		fmt.Printf("    %-12s %s\n", p.Label, render.DefaultFormatter.Number(p.Value))
	}
}

// svgPath places <name>.svg directly inside dir. Widget names come from
// HCL labels and may not contain path elements.
func svgPath(dir, name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", fmt.Errorf("widget name %q cannot be used as a file name", name)
	}
	return filepath.Join(dir, name+".svg"), nil
}

func writeSVG(path string, snap view.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.SVG(f, snap); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
