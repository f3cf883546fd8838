package hcl

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/leowmjw/go-temporal-chartview/pkg/source"
	"github.com/leowmjw/go-temporal-chartview/pkg/timeline"
	"github.com/leowmjw/go-temporal-chartview/pkg/view"
)

// HCLWidgetFile is the top level of a widget configuration file
type HCLWidgetFile struct {
	Widgets []HCLWidget `hcl:"widget,block"`
}

// HCLWidget describes one chart widget
type HCLWidget struct {
	Name         string     `hcl:"name,label"`
	Title        *string    `hcl:"title,optional"`
	Currency     *string    `hcl:"currency,optional"`
	TimeFrame    *string    `hcl:"time_frame,optional"`
	LoadingDelay *string    `hcl:"loading_delay,optional"`
	Source       *HCLSource `hcl:"source,block"`
	Cache        *HCLCache  `hcl:"cache,block"`
}

// HCLSource is the source block; its label is the source kind
type HCLSource struct {
	Kind       string   `hcl:"kind,label"`
	URL        *string  `hcl:"url,optional"`
	Timeout    *string  `hcl:"timeout,optional"`
	Points     *int     `hcl:"points,optional"`
	Start      *float64 `hcl:"start,optional"`
	Volatility *float64 `hcl:"volatility,optional"`
	Seed       *int64   `hcl:"seed,optional"`
	StartDate  *string  `hcl:"start_date,optional"`
	Series     *string  `hcl:"series,optional"`
}

// HCLCache enables the Redis cache for a widget's series
type HCLCache struct {
	TTL string `hcl:"ttl"`
}

// HCLAction is a user action written in HCL
type HCLAction struct {
	Type  string  `hcl:"type"`
	Tab   *string `hcl:"tab,optional"`
	Frame *string `hcl:"frame,optional"`
}

// newEvalContext exposes a few string helpers. It is used for HCL that
// arrives over HTTP, so it must never read process state.
func newEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{},
		Functions: map[string]function.Function{
			"upper":    stdlib.UpperFunc,
			"lower":    stdlib.LowerFunc,
			"format":   stdlib.FormatFunc,
			"coalesce": stdlib.CoalesceFunc,
		},
	}
}

// newFileEvalContext adds env() for widget files on the server's disk
func newFileEvalContext() *hcl.EvalContext {
	evalCtx := newEvalContext()
	evalCtx.Functions["env"] = function.New(&function.Spec{
		Params: []function.Parameter{
			{
				Name: "name",
				Type: cty.String,
			},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			return cty.StringVal(os.Getenv(args[0].AsString())), nil
		},
	})
	return evalCtx
}

// ParseHCLWidgets parses untrusted HCL content into widget configs; env()
// is not available
func ParseHCLWidgets(hclContent string) ([]view.Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL([]byte(hclContent), "widgets.hcl")
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return parseHCLWidgetsFromFile(file, newEvalContext())
}

// ParseHCLWidgetFile reads and parses a single widget file. File content may
// call env().
func ParseHCLWidgetFile(path string) ([]view.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(content, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return parseHCLWidgetsFromFile(file, newFileEvalContext())
}

func parseHCLWidgetsFromFile(file *hcl.File, evalCtx *hcl.EvalContext) ([]view.Config, error) {
	var widgetFile HCLWidgetFile
	diags := gohcl.DecodeBody(file.Body, evalCtx, &widgetFile)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL body: %s", diags.Error())
	}

	configs := make([]view.Config, 0, len(widgetFile.Widgets))
	seen := make(map[string]bool, len(widgetFile.Widgets))
	for _, w := range widgetFile.Widgets {
		if seen[w.Name] {
			return nil, fmt.Errorf("duplicate widget %q", w.Name)
		}
		seen[w.Name] = true
		configs = append(configs, convertHCLWidget(w))
	}
	return configs, nil
}

// convertHCLWidget maps the HCL structures onto a view.Config
func convertHCLWidget(w HCLWidget) view.Config {
	cfg := view.Config{Name: w.Name}

	if w.Title != nil {
		cfg.Title = *w.Title
	}
	if w.Currency != nil {
		cfg.Currency = *w.Currency
	}
	if w.TimeFrame != nil {
		cfg.TimeFrame = timeline.TimeFrame(*w.TimeFrame)
	}
	if w.LoadingDelay != nil {
		cfg.LoadingDelay = *w.LoadingDelay
	}

	if w.Source != nil {
		src := w.Source
		cfg.Source.Kind = source.Kind(src.Kind)
		if src.URL != nil {
			cfg.Source.URL = *src.URL
		}
		if src.Timeout != nil {
			cfg.Source.Timeout = *src.Timeout
		}
		if src.Points != nil {
			cfg.Source.Points = *src.Points
		}
		if src.Start != nil {
			cfg.Source.Start = *src.Start
		}
		if src.Volatility != nil {
			cfg.Source.Volatility = *src.Volatility
		}
		if src.Seed != nil {
			cfg.Source.Seed = *src.Seed
		}
		if src.StartDate != nil {
			cfg.Source.StartDate = *src.StartDate
		}
		if src.Series != nil {
			cfg.Source.Name = *src.Series
		}
	}

	if w.Cache != nil {
		cfg.Source.CacheTTL = w.Cache.TTL
	}

	return cfg.WithDefaults()
}

// ParseHCLAction parses an action body such as
//
//	type  = "select_time_frame"
//	frame = "3d"
func ParseHCLAction(hclContent string) (view.Action, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL([]byte(hclContent), "action.hcl")
	if diags.HasErrors() {
		return view.Action{}, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}

	var hclAction HCLAction
	diags = gohcl.DecodeBody(file.Body, newEvalContext(), &hclAction)
	if diags.HasErrors() {
		return view.Action{}, fmt.Errorf("failed to decode HCL body: %s", diags.Error())
	}

	action := view.Action{Type: view.ActionType(hclAction.Type)}
	if hclAction.Tab != nil {
		action.Tab = view.Tab(*hclAction.Tab)
	}
	if hclAction.Frame != nil {
		action.Frame = timeline.TimeFrame(*hclAction.Frame)
	}
	return action, nil
}

// IsHCL attempts to detect if the given content is in HCL format
func IsHCL(content []byte) bool {
	_, diags := hclsyntax.ParseConfig(content, "", hcl.Pos{Line: 1, Column: 1})
	return !diags.HasErrors()
}
