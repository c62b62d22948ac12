// Package netstat fetches and charts daily network state of a PAC chain.
//
// # Architecture
//
// The module is structured into several key packages:
//   - models: Shared data structures and result codes
//   - codec: Query string encoding and the protobuf/json response codecs
//   - api: HTTP client for the network_status endpoint
//   - fetch: Request lifecycle controller (Idle, Loading, Success, Error)
//   - series: Per-metric time series projection
//   - i18n, render: Chart captions and terminal/PNG output
//   - database: PostgreSQL storage of daily state rows
//   - server: statusd HTTP service and its middleware
//   - scheduler: Background housekeeping for statusd
//
// Key Features
//
//   - Two wire formats:
//     Responses are served as protobuf or json and decode to the same
//     NetworkStatus value.
//
//   - Last request wins:
//     A newer fetch always supersedes an older one, whichever finishes
//     first. Failures surface a single retryable error state.
//
//   - Fixed-point amounts:
//     Stake, supply, circulating supply and fees are integers scaled by
//     1e9 and are converted to PAC only for display.
//
// Example Usage
//
//	client := api.NewStatusClient("http://localhost:8080", nil)
//	ctrl := fetch.NewController(client)
//	ctrl.Start(models.TelemetryRequest{RangeDays: 30, Encoding: models.EncodingBinary})
//	ctrl.Wait()
//	charts := series.Charts(ctrl.State().Response, nil)
//
// For more information about specific packages, see their respective
// documentation.
package netstat
