package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/1pactus/netstat/internal/models"
)

var errMissingLines = errors.New("missing required field lines")

// textualInts lists the integer line fields with every key spelling accepted
// on input. The first name is the one written on output.
var textualInts = []struct {
	names []string
	ref   func(*models.DataPoint) *int64
}{
	{[]string{"stake"}, func(p *models.DataPoint) *int64 { return &p.Stake }},
	{[]string{"supply"}, func(p *models.DataPoint) *int64 { return &p.Supply }},
	{[]string{"circulating_supply", "circulatingSupply"}, func(p *models.DataPoint) *int64 { return &p.CirculatingSupply }},
	{[]string{"txs"}, func(p *models.DataPoint) *int64 { return &p.Txs }},
	{[]string{"blocks"}, func(p *models.DataPoint) *int64 { return &p.Blocks }},
	{[]string{"fee"}, func(p *models.DataPoint) *int64 { return &p.Fee }},
	{[]string{"active_validator", "activeValidator"}, func(p *models.DataPoint) *int64 { return &p.ActiveValidator }},
	{[]string{"active_account", "activeAccount"}, func(p *models.DataPoint) *int64 { return &p.ActiveAccount }},
}

var timeIndexNames = []string{"time_index", "timeIndex"}

func decodeTextual(b []byte) (*models.NetworkStatus, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("document is null")
	}

	out := &models.NetworkStatus{Lines: []models.DataPoint{}}

	if raw, ok := doc["code"]; ok {
		v, err := parseInteger(raw, 32)
		if err != nil {
			return nil, fmt.Errorf("code: %w", err)
		}
		out.Code = int32(v)
	}
	if raw, ok := doc["msg"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &out.Msg); err != nil {
			return nil, fmt.Errorf("msg: %w", err)
		}
	}

	rawLines, ok := doc["lines"]
	if !ok || isNull(rawLines) {
		return nil, errMissingLines
	}
	var lines []map[string]json.RawMessage
	if err := json.Unmarshal(rawLines, &lines); err != nil {
		return nil, fmt.Errorf("lines: %w", err)
	}
	for i, line := range lines {
		p, err := decodeTextualLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		out.Lines = append(out.Lines, p)
	}
	return out, nil
}

func decodeTextualLine(line map[string]json.RawMessage) (models.DataPoint, error) {
	var p models.DataPoint
	if line == nil {
		return p, errors.New("line is null")
	}

	raw, ok := lookup(line, timeIndexNames)
	if !ok {
		return p, errors.New("missing required field time_index")
	}
	if isNull(raw) {
		return p, errors.New("time_index is null")
	}
	ti, err := parseUnsigned(raw, 32)
	if err != nil {
		return p, fmt.Errorf("time_index: %w", err)
	}
	p.TimeIndex = uint32(ti)

	for _, f := range textualInts {
		raw, ok := lookup(line, f.names)
		if !ok {
			continue
		}
		v, err := parseInteger(raw, 64)
		if err != nil {
			return p, fmt.Errorf("%s: %w", f.names[0], err)
		}
		*f.ref(&p) = v
	}
	return p, nil
}

func lookup(m map[string]json.RawMessage, names []string) (json.RawMessage, bool) {
	for _, name := range names {
		if raw, ok := m[name]; ok {
			return raw, true
		}
	}
	return nil, false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// integerText returns the digits of a JSON integer literal or of a JSON
// string holding one. null reads as zero.
func integerText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return "0", nil
	}
	s := string(raw)
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
	}
	if strings.HasPrefix(s, "+") {
		return "", fmt.Errorf("invalid integer %q", s)
	}
	return s, nil
}

func parseInteger(raw json.RawMessage, bits int) (int64, error) {
	s, err := integerText(raw)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(s, 10, bits)
}

func parseUnsigned(raw json.RawMessage, bits int) (uint64, error) {
	s, err := integerText(raw)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(s, 10, bits)
}

type textualLine struct {
	TimeIndex         uint32 `json:"time_index"`
	Stake             string `json:"stake"`
	Supply            string `json:"supply"`
	CirculatingSupply string `json:"circulating_supply"`
	Txs               string `json:"txs"`
	Blocks            string `json:"blocks"`
	Fee               string `json:"fee"`
	ActiveValidator   string `json:"active_validator"`
	ActiveAccount     string `json:"active_account"`
}

type textualResponse struct {
	Code  int32         `json:"code,omitempty"`
	Msg   string        `json:"msg,omitempty"`
	Lines []textualLine `json:"lines"`
}

// EncodeTextual writes status as JSON. 64-bit integers are written as decimal
// strings so that readers without 64-bit integers keep full precision.
func EncodeTextual(status *models.NetworkStatus) ([]byte, error) {
	doc := textualResponse{Lines: []textualLine{}}
	if status != nil {
		doc.Code = status.Code
		doc.Msg = status.Msg
		for _, p := range status.Lines {
			doc.Lines = append(doc.Lines, textualLine{
				TimeIndex:         p.TimeIndex,
				Stake:             strconv.FormatInt(p.Stake, 10),
				Supply:            strconv.FormatInt(p.Supply, 10),
				CirculatingSupply: strconv.FormatInt(p.CirculatingSupply, 10),
				Txs:               strconv.FormatInt(p.Txs, 10),
				Blocks:            strconv.FormatInt(p.Blocks, 10),
				Fee:               strconv.FormatInt(p.Fee, 10),
				ActiveValidator:   strconv.FormatInt(p.ActiveValidator, 10),
				ActiveAccount:     strconv.FormatInt(p.ActiveAccount, 10),
			})
		}
	}
	return json.Marshal(doc)
}
