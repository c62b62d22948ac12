package series

import "github.com/1pactus/netstat/internal/models"

// Translator resolves a localized string by key.
type Translator func(key string) string

// Chart is what a chart widget consumes: one series with its caption.
type Chart struct {
	Series      NamedSeries
	Label       string
	Title       string
	Description string
}

// Charts binds every projected series to its translated title and
// description, in dashboard order. A nil translator leaves keys untranslated.
func Charts(resp *models.NetworkStatus, t Translator) []Chart {
	if t == nil {
		t = func(key string) string { return key }
	}
	charts := make([]Chart, 0, len(Metrics))
	for _, m := range Metrics {
		charts = append(charts, Chart{
			Series:      m.project(resp),
			Label:       m.Label,
			Title:       t(m.TitleKey),
			Description: t(m.DescriptionKey),
		})
	}
	return charts
}
