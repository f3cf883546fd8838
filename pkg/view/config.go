package view

import (
	"fmt"
	"time"

	"github.com/leowmjw/go-temporal-chartview/pkg/source"
	"github.com/leowmjw/go-temporal-chartview/pkg/timeline"
)

// DefaultCurrency is shown next to the headline value
const DefaultCurrency = "USD"

// Config describes a widget to mount
type Config struct {
	Name         string             `json:"name,omitempty"`
	Title        string             `json:"title,omitempty"`
	Currency     string             `json:"currency,omitempty"`
	TimeFrame    timeline.TimeFrame `json:"time_frame,omitempty"`
	LoadingDelay string             `json:"loading_delay,omitempty"`
	Source       source.Spec        `json:"source"`
}

// WithDefaults fills the optional presentation fields
func (c Config) WithDefaults() Config {
	if c.Currency == "" {
		c.Currency = DefaultCurrency
	}
	if c.TimeFrame == "" {
		c.TimeFrame = timeline.DefaultTimeFrame
	}
	if c.Title == "" {
		c.Title = c.Name
	}
	return c
}

// ModelOptions converts the config into model options. fallbackDelay is used
// when the config does not set a loading delay.
func (c Config) ModelOptions(fallbackDelay time.Duration) (Options, error) {
	opts := Options{
		TimeFrame:    c.TimeFrame,
		LoadingDelay: fallbackDelay,
	}
	if c.LoadingDelay != "" {
		delay, err := time.ParseDuration(c.LoadingDelay)
		if err != nil {
			return Options{}, fmt.Errorf("invalid loading delay: %w", err)
		}
		if delay < 0 {
			return Options{}, fmt.Errorf("loading delay must not be negative")
		}
		opts.LoadingDelay = delay
	}
	return opts, nil
}
