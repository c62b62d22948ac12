package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/1pactus/netstat/internal/codec"
	"github.com/1pactus/netstat/internal/models"
)

const (
	networkStatusPath = "/network_status"
	maxBodyBytes      = 16 << 20
)

var (
	ErrRequest     = errors.New("error making network_status request")
	ErrStatus      = errors.New("error status from network_status service")
	ErrServiceCode = errors.New("network_status service reported failure")
)

// TransportError reports a failed exchange with the network_status service:
// an unreachable host, a non-2xx status or a failure code in the envelope.
type TransportError struct {
	StatusCode  int
	ServiceCode int32
	Err         error
}

func (e *TransportError) Error() string {
	switch {
	case e.ServiceCode != 0:
		return fmt.Sprintf("%v: code %d", e.Err, e.ServiceCode)
	case e.StatusCode != 0:
		return fmt.Sprintf("%v: got %d", e.Err, e.StatusCode)
	default:
		return e.Err.Error()
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusClient fetches network status snapshots over HTTP.
type StatusClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewStatusClient(baseURL string, httpClient *http.Client) *StatusClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &StatusClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// URL returns the endpoint queried for req.
func (c *StatusClient) URL(req models.TelemetryRequest) string {
	u := c.baseURL + networkStatusPath
	if q := codec.EncodeQuery(req).Encode(); q != "" {
		u += "?" + q
	}
	return u
}

// Fetch issues one GET for req and decodes the body with the request's
// encoding.
func (c *StatusClient) Fetch(ctx context.Context, req models.TelemetryRequest) (*models.NetworkStatus, error) {
	if !req.Encoding.Supported() {
		return nil, fmt.Errorf("%w: %s", codec.ErrUnsupportedEncoding, req.Encoding)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(req), nil)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("%w: %v", ErrRequest, err)}
	}
	httpReq.Header.Set("Accept", codec.ContentType(req.Encoding))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("%w: %v", ErrRequest, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: ErrStatus}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("%w: reading body: %v", ErrRequest, err)}
	}
	if len(body) > maxBodyBytes {
		return nil, &TransportError{Err: fmt.Errorf("%w: body exceeds %d bytes", ErrRequest, maxBodyBytes)}
	}

	status, err := codec.Decode(req.Encoding, body)
	if err != nil {
		return nil, err
	}
	if !status.Succeeded() {
		return nil, &TransportError{
			ServiceCode: status.Code,
			Err:         fmt.Errorf("%w: %s", ErrServiceCode, serviceMessage(status)),
		}
	}
	return status, nil
}

func serviceMessage(s *models.NetworkStatus) string {
	if s.Msg != "" {
		return s.Msg
	}
	return models.ErrorFromCode(s.Code).Error()
}
