package hcl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leowmjw/go-temporal-chartview/pkg/view"
)

// AssertConfigsEqual compares widget configs field by field
func AssertConfigsEqual(t *testing.T, expected, actual []view.Config) {
	t.Helper()
	if !assert.Equal(t, len(expected), len(actual)) {
		return
	}
	for i := range expected {
		assert.Equal(t, expected[i].Name, actual[i].Name)
		assert.Equal(t, expected[i].Title, actual[i].Title)
		assert.Equal(t, expected[i].Currency, actual[i].Currency)
		assert.Equal(t, expected[i].TimeFrame, actual[i].TimeFrame)
		assert.Equal(t, expected[i].LoadingDelay, actual[i].LoadingDelay)
		assert.Equal(t, expected[i].Source, actual[i].Source, "source of %s", expected[i].Name)
	}
}
