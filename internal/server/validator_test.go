package server

import (
	"errors"
	"testing"

	"github.com/1pactus/netstat/internal/models"
)

func TestRequestValidator_Datatype(t *testing.T) {
	validator := NewRequestValidator()

	tests := []struct {
		name     string
		datatype string
		want     models.Encoding
		wantErr  bool
	}{
		{name: "default", datatype: "", want: models.EncodingTextual},
		{name: "json", datatype: "json", want: models.EncodingTextual},
		{name: "pb", datatype: "pb", want: models.EncodingBinary},
		{name: "uppercase", datatype: "JSON", wantErr: true},
		{name: "xml", datatype: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validator.Datatype(tt.datatype)
			if (err != nil) != tt.wantErr {
				t.Errorf("Datatype() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDatatype) {
					t.Errorf("Datatype() error = %v, want %v", err, ErrInvalidDatatype)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Datatype() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRequestValidator_Days(t *testing.T) {
	validator := NewRequestValidator()

	tests := []struct {
		name       string
		days       int32
		want       int32
		wantErr    bool
		errMessage string
	}{
		{name: "unset", days: 0, want: DefaultDays},
		{name: "all", days: models.AllDays, want: models.AllDays},
		{name: "one", days: 1, want: 1},
		{name: "year", days: 365, want: 365},
		{name: "below sentinel", days: -2, wantErr: true, errMessage: "invalid days: -2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validator.Days(tt.days)
			if (err != nil) != tt.wantErr {
				t.Errorf("Days() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && err.Error() != tt.errMessage {
				t.Errorf("Days() error message = %v, want %v", err.Error(), tt.errMessage)
			}
			if got != tt.want {
				t.Errorf("Days() = %v, want %v", got, tt.want)
			}
		})
	}
}
