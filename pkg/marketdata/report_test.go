package marketdata

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joripage/marketsim/pkg/exchange"
	"github.com/joripage/marketsim/pkg/orderbook"
)

func TestSummarize(t *testing.T) {
	trades := []*orderbook.Trade{
		{Commodity: "Widget", Price: 49.0, Quantity: 5},
		{Commodity: "Widget", Price: 49.5, Quantity: 5},
		{Commodity: "Widget", Price: 48.0, Quantity: 10},
	}

	s := Summarize("Widget", trades)
	assert.Equal(t, 3, s.Trades)
	assert.Equal(t, int64(20), s.Volume)
	// (49*5 + 49.5*5 + 48*10) / 20 = 972.5 / 20 = 48.625
	assert.Equal(t, "48.625", s.VWAP.String())
	assert.Equal(t, "48", s.Min.String())
	assert.Equal(t, "49.5", s.Max.String())
	assert.Equal(t, "48", s.Last.String())
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize("Widget", nil)
	assert.Equal(t, 0, s.Trades)
	assert.Equal(t, int64(0), s.Volume)
	assert.True(t, s.VWAP.IsZero())
}

func TestWriteReport(t *testing.T) {
	e := exchange.NewEngine()
	e.AppendTrade(&orderbook.Trade{Commodity: "Widget", Price: 50.0, Quantity: 4})
	e.AppendTrade(&orderbook.Trade{Commodity: "Gadget", Price: 80.0, Quantity: 5})

	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, WriteReport(e, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "commodity", records[0][0])
	assert.Equal(t, []string{"Gadget", "1", "5", "80", "80", "80", "80"}, records[1])
	assert.Equal(t, []string{"Widget", "1", "4", "50", "50", "50", "50"}, records[2])
}
