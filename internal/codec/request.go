package codec

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/1pactus/netstat/internal/models"
)

// Param is a single key/value pair of an encoded query.
type Param struct {
	Key   string
	Value string
}

// Query is an ordered set of query parameters. Unlike url.Values it keeps
// insertion order so the rendered string is stable.
type Query []Param

// Encode renders the query as key=value pairs joined by '&', in order.
func (q Query) Encode() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Get returns the value for key and whether it is present.
func (q Query) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

type queryField struct {
	key       string
	isDefault func(models.TelemetryRequest) bool
	value     func(models.TelemetryRequest) string
}

// requestFields is declared in TelemetryRequest field order.
var requestFields = []queryField{
	{
		key:       "days",
		isDefault: func(r models.TelemetryRequest) bool { return r.RangeDays == 0 },
		value:     func(r models.TelemetryRequest) string { return strconv.FormatInt(int64(r.RangeDays), 10) },
	},
	{
		key:       "datatype",
		isDefault: func(r models.TelemetryRequest) bool { return r.Encoding == models.EncodingUnspecified },
		value:     func(r models.TelemetryRequest) string { return r.Encoding.Tag() },
	},
}

// EncodeQuery builds the network_status query for req, leaving out every
// field that holds its default value.
func EncodeQuery(req models.TelemetryRequest) Query {
	q := make(Query, 0, len(requestFields))
	for _, f := range requestFields {
		if f.isDefault(req) {
			continue
		}
		q = append(q, Param{Key: f.key, Value: f.value(req)})
	}
	return q
}
