// Package series turns a decoded NetworkStatus into one time series per
// metric, ready for chart widgets.
//
// Monetary metrics are stored on chain as fixed-point integers with nine
// decimals and are converted to display units here; counts pass through.
// Each DataPoint yields exactly one point per series, dated by the UTC day of
// its time index. Points sharing a day are kept, not merged.
package series

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/1pactus/netstat/internal/models"
)

// Decimals is the fixed-point scale of monetary amounts (1e9 units per coin).
const Decimals = 9

const dateLayout = "2006-01-02"

var ErrUnknownMetric = errors.New("unknown metric")

type MetricKey string

const (
	MetricStake             MetricKey = "stake"
	MetricSupply            MetricKey = "supply"
	MetricCirculatingSupply MetricKey = "circulating_supply"
	MetricTxs               MetricKey = "txs"
	MetricBlocks            MetricKey = "blocks"
	MetricFee               MetricKey = "fee"
	MetricActiveValidators  MetricKey = "active_validator"
	MetricActiveAccounts    MetricKey = "active_account"
)

// Metric describes one projected series.
type Metric struct {
	Key            MetricKey
	Label          string
	Monetary       bool
	TitleKey       string
	DescriptionKey string

	raw func(models.DataPoint) int64
}

// Metrics lists every metric in dashboard order.
var Metrics = []Metric{
	{
		Key: MetricBlocks, Label: "Blocks",
		TitleKey: "block-committed-title", DescriptionKey: "block-committed-description",
		raw: func(p models.DataPoint) int64 { return p.Blocks },
	},
	{
		Key: MetricTxs, Label: "txs",
		TitleKey: "transactions-committed-title", DescriptionKey: "transactions-committed-description",
		raw: func(p models.DataPoint) int64 { return p.Txs },
	},
	{
		Key: MetricStake, Label: "stake", Monetary: true,
		TitleKey: "stake-title", DescriptionKey: "stake-description",
		raw: func(p models.DataPoint) int64 { return p.Stake },
	},
	{
		Key: MetricSupply, Label: "supply", Monetary: true,
		TitleKey: "supply-title", DescriptionKey: "supply-description",
		raw: func(p models.DataPoint) int64 { return p.Supply },
	},
	{
		Key: MetricCirculatingSupply, Label: "circulating_supply", Monetary: true,
		TitleKey: "circulating-supply-title", DescriptionKey: "circulating-supply-description",
		raw: func(p models.DataPoint) int64 { return p.CirculatingSupply },
	},
	{
		Key: MetricFee, Label: "fee", Monetary: true,
		TitleKey: "fee-accumulation-title", DescriptionKey: "fee-accumulation-description",
		raw: func(p models.DataPoint) int64 { return p.Fee },
	},
	{
		Key: MetricActiveValidators, Label: "active_validator",
		TitleKey: "active-validators-title", DescriptionKey: "active-validators-description",
		raw: func(p models.DataPoint) int64 { return p.ActiveValidator },
	},
	{
		Key: MetricActiveAccounts, Label: "active_account",
		TitleKey: "active-accounts-title", DescriptionKey: "active-accounts-description",
		raw: func(p models.DataPoint) int64 { return p.ActiveAccount },
	},
}

// Lookup returns the catalog entry for key.
func Lookup(key MetricKey) (Metric, bool) {
	for _, m := range Metrics {
		if m.Key == key {
			return m, true
		}
	}
	return Metric{}, false
}

type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type NamedSeries struct {
	Metric MetricKey `json:"metric"`
	Points []Point   `json:"points"`
}

// Value converts a raw integer of this metric to display units.
func (m Metric) Value(raw int64) float64 {
	if m.Monetary {
		return decimal.New(raw, -Decimals).InexactFloat64()
	}
	return float64(raw)
}

// Date returns the UTC calendar day of a time index.
func Date(timeIndex uint32) string {
	return time.Unix(int64(timeIndex), 0).UTC().Format(dateLayout)
}

// Project builds the series of one metric. A nil response projects to an
// empty series.
func Project(resp *models.NetworkStatus, key MetricKey) (NamedSeries, error) {
	m, ok := Lookup(key)
	if !ok {
		return NamedSeries{}, fmt.Errorf("%w: %q", ErrUnknownMetric, key)
	}
	return m.project(resp), nil
}

// ProjectAll builds the series of every metric.
func ProjectAll(resp *models.NetworkStatus) map[MetricKey]NamedSeries {
	out := make(map[MetricKey]NamedSeries, len(Metrics))
	for _, m := range Metrics {
		out[m.Key] = m.project(resp)
	}
	return out
}

func (m Metric) project(resp *models.NetworkStatus) NamedSeries {
	s := NamedSeries{Metric: m.Key, Points: []Point{}}
	if resp == nil {
		return s
	}
	s.Points = make([]Point, len(resp.Lines))
	for i, line := range resp.Lines {
		s.Points[i] = Point{
			Date:  Date(line.TimeIndex),
			Value: m.Value(m.raw(line)),
		}
	}
	return s
}
