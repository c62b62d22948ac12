package server

import (
	"errors"
	"fmt"

	"github.com/1pactus/netstat/internal/models"
)

// DefaultDays is served when the request leaves days unset.
const DefaultDays int32 = 30

var (
	ErrInvalidDatatype = errors.New("invalid datatype")
	ErrInvalidDays     = errors.New("invalid days")
)

// RequestValidator checks network_status query parameters.
type RequestValidator struct {
	validDatatypes map[string]models.Encoding
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		validDatatypes: map[string]models.Encoding{
			"":     models.EncodingTextual,
			"json": models.EncodingTextual,
			"pb":   models.EncodingBinary,
		},
	}
}

// Datatype resolves the response encoding. An empty datatype means json.
func (v *RequestValidator) Datatype(datatype string) (models.Encoding, error) {
	enc, ok := v.validDatatypes[datatype]
	if !ok {
		return models.EncodingUnspecified, ErrInvalidDatatype
	}
	return enc, nil
}

// Days resolves the requested range: 0 means DefaultDays, AllDays means
// every row, anything below AllDays is rejected.
func (v *RequestValidator) Days(days int32) (int32, error) {
	switch {
	case days == 0:
		return DefaultDays, nil
	case days < models.AllDays:
		return 0, fmt.Errorf("%w: %d", ErrInvalidDays, days)
	}
	return days, nil
}
