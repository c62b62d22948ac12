package codec

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/1pactus/netstat/internal/models"
)

// GetNetworkHealthResponse field numbers.
const (
	fieldCode  protowire.Number = 1
	fieldMsg   protowire.Number = 2
	fieldLines protowire.Number = 3
)

// NetworkStatusData field numbers.
const (
	fieldTimeIndex protowire.Number = 1
)

var lineInts = []struct {
	num protowire.Number
	ref func(*models.DataPoint) *int64
}{
	{2, func(p *models.DataPoint) *int64 { return &p.Stake }},
	{3, func(p *models.DataPoint) *int64 { return &p.Supply }},
	{4, func(p *models.DataPoint) *int64 { return &p.CirculatingSupply }},
	{5, func(p *models.DataPoint) *int64 { return &p.Txs }},
	{6, func(p *models.DataPoint) *int64 { return &p.Blocks }},
	{7, func(p *models.DataPoint) *int64 { return &p.Fee }},
	{8, func(p *models.DataPoint) *int64 { return &p.ActiveValidator }},
	{9, func(p *models.DataPoint) *int64 { return &p.ActiveAccount }},
}

func decodeBinary(b []byte) (*models.NetworkStatus, error) {
	out := &models.NetworkStatus{Lines: []models.DataPoint{}}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("response tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		switch num {
		case fieldCode:
			v, n, err := consumeVarint(num, typ, b)
			if err != nil {
				return nil, err
			}
			out.Code = int32(v)
			b = b[n:]
		case fieldMsg, fieldLines:
			if typ != protowire.BytesType {
				return nil, wireTypeError(num, typ)
			}
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
			}
			if num == fieldMsg {
				out.Msg = string(v)
			} else {
				line, err := decodeBinaryLine(v)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", len(out.Lines), err)
				}
				out.Lines = append(out.Lines, line)
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return out, nil
}

func decodeBinaryLine(b []byte) (models.DataPoint, error) {
	var p models.DataPoint
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return p, fmt.Errorf("tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		if ref := lineIntRef(num); ref != nil || num == fieldTimeIndex {
			v, n, err := consumeVarint(num, typ, b)
			if err != nil {
				return p, err
			}
			if ref != nil {
				*ref(&p) = int64(v)
			} else {
				if v > math.MaxUint32 {
					return p, fmt.Errorf("time_index %d overflows uint32", v)
				}
				p.TimeIndex = uint32(v)
			}
			b = b[n:]
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return p, fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return p, nil
}

func lineIntRef(num protowire.Number) func(*models.DataPoint) *int64 {
	for _, f := range lineInts {
		if f.num == num {
			return f.ref
		}
	}
	return nil
}

func consumeVarint(num protowire.Number, typ protowire.Type, b []byte) (uint64, int, error) {
	if typ != protowire.VarintType {
		return 0, 0, wireTypeError(num, typ)
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
	}
	return v, n, nil
}

func wireTypeError(num protowire.Number, typ protowire.Type) error {
	return fmt.Errorf("field %d: unexpected wire type %d", num, typ)
}

// EncodeBinary writes status in protobuf wire format. Zero-valued scalars are
// omitted, as proto3 does.
func EncodeBinary(status *models.NetworkStatus) []byte {
	var b []byte
	if status == nil {
		return b
	}
	if status.Code != 0 {
		b = protowire.AppendTag(b, fieldCode, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(status.Code)))
	}
	if status.Msg != "" {
		b = protowire.AppendTag(b, fieldMsg, protowire.BytesType)
		b = protowire.AppendString(b, status.Msg)
	}
	for i := range status.Lines {
		b = protowire.AppendTag(b, fieldLines, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeBinaryLine(&status.Lines[i]))
	}
	return b
}

func encodeBinaryLine(p *models.DataPoint) []byte {
	var b []byte
	if p.TimeIndex != 0 {
		b = protowire.AppendTag(b, fieldTimeIndex, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(p.TimeIndex))
	}
	for _, f := range lineInts {
		v := *f.ref(p)
		if v == 0 {
			continue
		}
		b = protowire.AppendTag(b, f.num, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(v))
	}
	return b
}
