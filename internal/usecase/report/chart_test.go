package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/networth"
)

func TestRenderNetWorthChart_ProducesPNG(t *testing.T) {
	series := []networth.Point{
		{Month: domain.MonthOf(2025, time.January), Total: decimal.NewFromInt(20000)},
		{Month: domain.MonthOf(2025, time.February), Total: decimal.NewFromInt(21500)},
		{Month: domain.MonthOf(2025, time.March), Total: decimal.NewFromInt(21000)},
	}

	// Execute
	png, err := RenderNetWorthChart(series, "CAD")

	// Assert
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4], "output should start with the PNG signature")
}

func TestRenderNetWorthChart_NeedsTwoPoints(t *testing.T) {
	series := []networth.Point{
		{Month: domain.MonthOf(2025, time.January), Total: decimal.NewFromInt(20000)},
	}

	// Execute
	_, err := RenderNetWorthChart(series, "CAD")

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "need at least 2 data points")
}
