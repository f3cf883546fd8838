package view

import (
	"errors"
	"fmt"

	"github.com/leowmjw/go-temporal-chartview/pkg/timeline"
)

var (
	ErrUnknownTab    = errors.New("unknown tab")
	ErrUnknownAction = errors.New("unknown action")
)

// Tab is the panel selected in the navigation bar
type Tab string

const (
	SummaryTab    Tab = "summary"
	ChartTab      Tab = "chart"
	StatisticsTab Tab = "statistics"
	AnalysisTab   Tab = "analysis"
	SettingsTab   Tab = "settings"
)

// Tabs returns the navigation tabs in display order
func Tabs() []Tab {
	return []Tab{SummaryTab, ChartTab, StatisticsTab, AnalysisTab, SettingsTab}
}

// Known reports whether the tab belongs to the navigation bar
func (t Tab) Known() bool {
	for _, tab := range Tabs() {
		if t == tab {
			return true
		}
	}
	return false
}

// State is the user-facing state of a mounted widget. It is a value type;
// transitions return a new State.
type State struct {
	TimeFrame    timeline.TimeFrame `json:"time_frame"`
	Fullscreen   bool               `json:"fullscreen"`
	ActiveTab    Tab                `json:"active_tab"`
	TooltipIndex *int               `json:"tooltip_index"`
}

// InitialState is the state of a freshly mounted widget
func InitialState() State {
	return State{
		TimeFrame:  timeline.DefaultTimeFrame,
		Fullscreen: false,
		ActiveTab:  ChartTab,
	}
}

// SelectTab switches the active panel. Unknown tabs are rejected and the
// state is returned unchanged.
func SelectTab(s State, tab Tab) (State, error) {
	if !tab.Known() {
		return s, fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}
	s.ActiveTab = tab
	return s, nil
}

// ToggleFullscreen flips the fullscreen flag
func ToggleFullscreen(s State) State {
	s.Fullscreen = !s.Fullscreen
	return s
}

// SelectTimeFrame stores the selected frame. Keys outside the enumerated set
// are kept as given and filter with the default window.
func SelectTimeFrame(s State, frame timeline.TimeFrame) State {
	s.TimeFrame = frame
	return s
}

// ActionType names a user action
type ActionType string

const (
	SelectTabAction        ActionType = "select_tab"
	SelectTimeFrameAction  ActionType = "select_time_frame"
	ToggleFullscreenAction ActionType = "toggle_fullscreen"
)

// Action is a user interaction as received from the presentation layer
type Action struct {
	Type  ActionType         `json:"type"`
	Tab   Tab                `json:"tab,omitempty"`
	Frame timeline.TimeFrame `json:"frame,omitempty"`
}

// Apply routes an action to its reducer
func Apply(s State, action Action) (State, error) {
	switch action.Type {
	case SelectTabAction:
		return SelectTab(s, action.Tab)
	case SelectTimeFrameAction:
		return SelectTimeFrame(s, action.Frame), nil
	case ToggleFullscreenAction:
		return ToggleFullscreen(s), nil
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownAction, action.Type)
	}
}

var panelText = map[Tab]string{
	SummaryTab:    "This is the Summary panel.",
	StatisticsTab: "This is the Statistics panel.",
	AnalysisTab:   "This is the Analysis panel.",
	SettingsTab:   "This is the Settings panel.",
}

// PanelText returns the placeholder text of a non-chart panel. The chart tab
// and unknown tabs have no text.
func PanelText(tab Tab) string {
	return panelText[tab]
}
