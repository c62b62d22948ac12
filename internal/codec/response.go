// Package codec converts between TelemetryRequest values and network_status
// queries, and between network_status payloads and models.NetworkStatus.
//
// Two payload encodings exist:
//   - binary ("pb"): protobuf wire format, read field by field with protowire
//   - textual ("json"): JSON with 64-bit integers optionally carried as strings
//
// Both decoders produce the same NetworkStatus for the same logical data, so
// callers never need to know which one ran.
package codec

import (
	"errors"
	"fmt"

	"github.com/1pactus/netstat/internal/models"
)

var (
	// ErrUnsupportedEncoding is returned for any tag outside binary/textual.
	ErrUnsupportedEncoding = models.ErrUnsupportedEncoding

	// ErrMalformedPayload matches every DecodeError.
	ErrMalformedPayload = errors.New("malformed payload")
)

// DecodeError reports a payload that does not match the schema implied by
// its encoding.
type DecodeError struct {
	Encoding models.Encoding
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s payload: %v", e.Encoding, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrMalformedPayload }

// Decode parses payload according to enc.
func Decode(enc models.Encoding, payload []byte) (*models.NetworkStatus, error) {
	var (
		status *models.NetworkStatus
		err    error
	)
	switch enc {
	case models.EncodingBinary:
		status, err = decodeBinary(payload)
	case models.EncodingTextual:
		status, err = decodeTextual(payload)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, enc)
	}
	if err != nil {
		return nil, &DecodeError{Encoding: enc, Err: err}
	}
	return status, nil
}

// Encode serializes status according to enc.
func Encode(enc models.Encoding, status *models.NetworkStatus) ([]byte, error) {
	switch enc {
	case models.EncodingBinary:
		return EncodeBinary(status), nil
	case models.EncodingTextual:
		return EncodeTextual(status)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, enc)
	}
}

// ContentType returns the media type a payload of enc is served with.
func ContentType(enc models.Encoding) string {
	if enc == models.EncodingBinary {
		return "application/x-protobuf"
	}
	return "application/json"
}
