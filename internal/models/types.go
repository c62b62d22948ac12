package models

import (
	"errors"
	"fmt"
	"strings"
)

// AllDays asks the service for every stored day instead of a trailing window.
const AllDays int32 = -1

// Encoding selects the wire format of a network status payload.
type Encoding uint8

const (
	EncodingUnspecified Encoding = iota
	EncodingBinary
	EncodingTextual
)

// ErrUnsupportedEncoding is returned for any encoding outside the binary/textual pair.
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// Tag returns the datatype value understood by the network_status endpoint.
func (e Encoding) Tag() string {
	switch e {
	case EncodingBinary:
		return "pb"
	case EncodingTextual:
		return "json"
	case EncodingUnspecified:
		return ""
	default:
		return fmt.Sprintf("Encoding(%d)", uint8(e))
	}
}

func (e Encoding) String() string {
	if e == EncodingUnspecified {
		return "unspecified"
	}
	return e.Tag()
}

// Supported reports whether e is one of the two wire formats.
func (e Encoding) Supported() bool {
	return e == EncodingBinary || e == EncodingTextual
}

// ParseEncoding maps a datatype tag to an Encoding.
func ParseEncoding(tag string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "pb", "binary":
		return EncodingBinary, nil
	case "json", "textual":
		return EncodingTextual, nil
	default:
		return EncodingUnspecified, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, tag)
	}
}

// TelemetryRequest describes one network status fetch.
type TelemetryRequest struct {
	RangeDays int32
	Encoding  Encoding
}

// DataPoint is one day of aggregated network state. Stake, Supply,
// CirculatingSupply and Fee are fixed-point amounts scaled by 1e9.
type DataPoint struct {
	TimeIndex         uint32 `json:"time_index"`
	Stake             int64  `json:"stake"`
	Supply            int64  `json:"supply"`
	CirculatingSupply int64  `json:"circulating_supply"`
	Txs               int64  `json:"txs"`
	Blocks            int64  `json:"blocks"`
	Fee               int64  `json:"fee"`
	ActiveValidator   int64  `json:"active_validator"`
	ActiveAccount     int64  `json:"active_account"`
}

// NetworkStatus is the decoded network_status response, identical whichever
// encoding carried it.
type NetworkStatus struct {
	Code  int32       `json:"code"`
	Msg   string      `json:"msg"`
	Lines []DataPoint `json:"lines"`
}
