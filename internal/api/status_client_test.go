package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1pactus/netstat/internal/codec"
	"github.com/1pactus/netstat/internal/models"
)

func mockStatusServer(t *testing.T, status int, build func(enc models.Encoding) []byte) (*httptest.Server, *atomic.Int32) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != networkStatusPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		enc, err := models.ParseEncoding(r.URL.Query().Get("datatype"))
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", codec.ContentType(enc))
		w.WriteHeader(status)
		_, _ = w.Write(build(enc))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func encoded(status *models.NetworkStatus) func(models.Encoding) []byte {
	return func(enc models.Encoding) []byte {
		b, _ := codec.Encode(enc, status)
		return b
	}
}

func TestStatusClientFetch(t *testing.T) {
	want := &models.NetworkStatus{
		Code: models.CodeSuccess,
		Msg:  "success",
		Lines: []models.DataPoint{
			{TimeIndex: 1700000000, Stake: 5_000_000_000, Txs: 12},
			{TimeIndex: 1700086400, Stake: 5_500_000_000, Txs: 40},
		},
	}
	srv, _ := mockStatusServer(t, http.StatusOK, encoded(want))
	client := NewStatusClient(srv.URL+"/", srv.Client())

	for _, enc := range []models.Encoding{models.EncodingBinary, models.EncodingTextual} {
		t.Run(enc.String(), func(t *testing.T) {
			got, err := client.Fetch(context.Background(), models.TelemetryRequest{RangeDays: -1, Encoding: enc})
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestStatusClientURL(t *testing.T) {
	client := NewStatusClient("http://localhost:8080/api/", nil)

	assert.Equal(t,
		"http://localhost:8080/api/network_status?days=-1&datatype=pb",
		client.URL(models.TelemetryRequest{RangeDays: -1, Encoding: models.EncodingBinary}))
	assert.Equal(t,
		"http://localhost:8080/api/network_status",
		client.URL(models.TelemetryRequest{}))
}

func TestStatusClientErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       func(models.Encoding) []byte
		wantStatus int
		wantErr    error
	}{
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       encoded(&models.NetworkStatus{Code: models.CodeSuccess}),
			wantStatus: http.StatusInternalServerError,
			wantErr:    ErrStatus,
		},
		{
			name:       "not found",
			status:     http.StatusNotFound,
			body:       func(models.Encoding) []byte { return nil },
			wantStatus: http.StatusNotFound,
			wantErr:    ErrStatus,
		},
		{
			name:    "service failure code",
			status:  http.StatusOK,
			body:    encoded(&models.NetworkStatus{Code: models.CodeInternalError}),
			wantErr: ErrServiceCode,
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    func(models.Encoding) []byte { return []byte("{") },
			wantErr: codec.ErrMalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := mockStatusServer(t, tt.status, tt.body)
			client := NewStatusClient(srv.URL, srv.Client())

			got, err := client.Fetch(context.Background(), models.TelemetryRequest{Encoding: models.EncodingTextual})
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			var transportErr *TransportError
			if errors.As(err, &transportErr) {
				assert.Equal(t, tt.wantStatus, transportErr.StatusCode)
			}
		})
	}
}

func TestStatusClientServiceCodeMessage(t *testing.T) {
	srv, _ := mockStatusServer(t, http.StatusOK, encoded(&models.NetworkStatus{Code: models.CodeInternalError}))
	client := NewStatusClient(srv.URL, srv.Client())

	_, err := client.Fetch(context.Background(), models.TelemetryRequest{Encoding: models.EncodingBinary})
	require.Error(t, err)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, int32(models.CodeInternalError), transportErr.ServiceCode)
	assert.Contains(t, err.Error(), "internal error")
}

func TestStatusClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewStatusClient(url, nil).Fetch(context.Background(), models.TelemetryRequest{Encoding: models.EncodingTextual})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRequest))
}

func TestStatusClientUnsupportedEncoding(t *testing.T) {
	srv, calls := mockStatusServer(t, http.StatusOK, encoded(&models.NetworkStatus{}))
	client := NewStatusClient(srv.URL, srv.Client())

	for _, enc := range []models.Encoding{models.EncodingUnspecified, models.Encoding(5)} {
		_, err := client.Fetch(context.Background(), models.TelemetryRequest{Encoding: enc})
		assert.True(t, errors.Is(err, codec.ErrUnsupportedEncoding))
	}
	assert.Equal(t, int32(0), calls.Load(), "no request may be issued for an unsupported encoding")
}
