package render

import (
	"github.com/leowmjw/go-temporal-chartview/pkg/timeline"
	"github.com/leowmjw/go-temporal-chartview/pkg/view"
)

// Fullscreen button labels
const (
	EnterFullscreenLabel = "Fullscreen"
	ExitFullscreenLabel  = "Exit Fullscreen"
)

var tabLabels = map[view.Tab]string{
	view.SummaryTab:    "Summary",
	view.ChartTab:      "Chart",
	view.StatisticsTab: "Statistics",
	view.AnalysisTab:   "Analysis",
	view.SettingsTab:   "Settings",
}

// NavItem is one entry of the navigation bar
type NavItem struct {
	Tab    view.Tab `json:"tab"`
	Label  string   `json:"label"`
	Active bool     `json:"active"`
}

// FrameButton is one time-frame selector
type FrameButton struct {
	Frame  timeline.TimeFrame `json:"frame"`
	Active bool               `json:"active"`
}

// Chrome is everything around the plot that depends on the view state
type Chrome struct {
	ShowNavigation  bool          `json:"show_navigation"`
	ShowCompare     bool          `json:"show_compare"`
	ShowChart       bool          `json:"show_chart"`
	Loading         bool          `json:"loading"`
	Fullscreen      bool          `json:"fullscreen"`
	FullscreenLabel string        `json:"fullscreen_label"`
	Positive        bool          `json:"positive"`
	Navigation      []NavItem     `json:"navigation,omitempty"`
	TimeFrames      []FrameButton `json:"time_frames"`
	PanelText       string        `json:"panel_text,omitempty"`
}

// BuildChrome derives the chrome from a snapshot. Navigation and the
// Compare button are hidden in fullscreen.
func BuildChrome(snap view.Snapshot) Chrome {
	state := snap.State
	c := Chrome{
		ShowNavigation:  !state.Fullscreen,
		ShowCompare:     !state.Fullscreen,
		ShowChart:       !snap.Loading && state.ActiveTab == view.ChartTab,
		Loading:         snap.Loading,
		Fullscreen:      state.Fullscreen,
		FullscreenLabel: EnterFullscreenLabel,
		Positive:        snap.Sign == timeline.Positive,
	}
	if state.Fullscreen {
		c.FullscreenLabel = ExitFullscreenLabel
	}

	if c.ShowNavigation {
		for _, tab := range view.Tabs() {
			c.Navigation = append(c.Navigation, NavItem{
				Tab:    tab,
				Label:  tabLabels[tab],
				Active: tab == state.ActiveTab,
			})
		}
	}

	for _, frame := range timeline.TimeFrames() {
		c.TimeFrames = append(c.TimeFrames, FrameButton{
			Frame:  frame,
			Active: frame == state.TimeFrame,
		})
	}

	if !snap.Loading {
		c.PanelText = view.PanelText(state.ActiveTab)
	}
	return c
}
