package render

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1pactus/netstat/internal/models"
	"github.com/1pactus/netstat/internal/series"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sampleCharts(lines ...models.DataPoint) []series.Chart {
	return series.Charts(&models.NetworkStatus{Lines: lines}, nil)
}

func TestTable(t *testing.T) {
	charts := sampleCharts(
		models.DataPoint{TimeIndex: 1700000000, Blocks: 8640, Stake: 1_500_000_000},
		models.DataPoint{TimeIndex: 1700086400, Blocks: 8641, Stake: 2_000_000_000},
	)

	var buf bytes.Buffer
	require.NoError(t, Table(&buf, charts))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(charts)+1)
	assert.Equal(t, []string{"METRIC", "POINTS", "FROM", "TO", "LATEST"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"block-committed-title", "2", "2023-11-14", "2023-11-15", "8641"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"stake-title", "2", "2023-11-14", "2023-11-15", "2"}, strings.Fields(lines[3]))
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, sampleCharts()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(series.Metrics)+1)
	assert.Equal(t, []string{"block-committed-title", "0", "-", "-", "-"}, strings.Fields(lines[1]))
}

func TestDetail(t *testing.T) {
	charts := sampleCharts(models.DataPoint{TimeIndex: 1700000000, Fee: 250_000_000})

	var fee series.Chart
	for _, c := range charts {
		if c.Series.Metric == series.MetricFee {
			fee = c
		}
	}

	var buf bytes.Buffer
	require.NoError(t, Detail(&buf, fee))
	assert.Contains(t, buf.String(), "fee-accumulation-title\n")
	assert.Contains(t, buf.String(), "2023-11-14  0.25")
}

func TestPNG(t *testing.T) {
	tests := []struct {
		name  string
		lines []models.DataPoint
	}{
		{
			name: "several points",
			lines: []models.DataPoint{
				{TimeIndex: 1700000000, Blocks: 8640},
				{TimeIndex: 1700086400, Blocks: 8600},
				{TimeIndex: 1700172800, Blocks: 8700},
			},
		},
		{
			name:  "single point",
			lines: []models.DataPoint{{TimeIndex: 1700000000, Blocks: 8640}},
		},
		{
			name: "flat values",
			lines: []models.DataPoint{
				{TimeIndex: 1700000000, Blocks: 5},
				{TimeIndex: 1700086400, Blocks: 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, PNG(&buf, sampleCharts(tt.lines...)[0]))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
		})
	}
}

func TestPNGNoPoints(t *testing.T) {
	err := PNG(&bytes.Buffer{}, sampleCharts()[0])
	assert.True(t, errors.Is(err, ErrNoPoints))
}

func TestWritePNGs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	charts := sampleCharts(
		models.DataPoint{TimeIndex: 1700000000, Blocks: 1, Txs: 10},
		models.DataPoint{TimeIndex: 1700086400, Blocks: 2, Txs: 20},
	)

	written, err := WritePNGs(dir, charts)
	require.NoError(t, err)
	require.Len(t, written, len(series.Metrics))
	assert.Equal(t, filepath.Join(dir, "blocks.png"), written[0])

	data, err := os.ReadFile(filepath.Join(dir, "txs.png"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))

	written, err = WritePNGs(dir, sampleCharts())
	require.NoError(t, err)
	assert.Empty(t, written)
}
