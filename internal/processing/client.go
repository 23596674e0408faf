// Package processing talks to the remote patient processing API.
package processing

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/skssmd/patient-project/internal/apperrors"
	"github.com/skssmd/patient-project/internal/models"
)

// maxBodyBytes caps how much of a remote reply is read into memory.
const maxBodyBytes = 4 << 20

type Request struct {
	Weight models.Measurement `json:"weight"`
	Height models.Measurement `json:"height"`
}

// Response is the remote reply. Results is kept raw so it can be stored
// exactly as received.
type Response struct {
	Patient models.BodyMeasurements `json:"patient"`
	Results json.RawMessage         `json:"results"`
}

type Client interface {
	Process(ctx context.Context, patientID uint, req Request) (*Response, error)
}

type Config struct {
	BaseURL       string
	SkipTLSVerify bool
	Timeout       time.Duration
}

type httpClient struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewHTTPClient(cfg Config, log zerolog.Logger) Client {
	log = log.With().Str("component", "processing_client").Logger()

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.SkipTLSVerify {
		log.Warn().Str("base_url", cfg.BaseURL).Msg("TLS certificate verification disabled for processing API")
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &httpClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		log: log,
	}
}

// Process makes a single POST to {base}/api/patients/{id}/process. Any reply
// other than 200 comes back as *apperrors.ExternalError carrying the remote
// status and body.
func (c *httpClient) Process(ctx context.Context, patientID uint, req Request) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/api/patients/" + strconv.FormatUint(uint64(patientID), 10) + "/process"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error().Err(err).Uint("patient_id", patientID).Msg("processing API unreachable")
		return nil, apperrors.NewGatewayError(fmt.Errorf("processing API request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.NewGatewayError(fmt.Errorf("failed to read processing API response: %w", err))
	}

	c.log.Info().
		Uint("patient_id", patientID).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("processing API call")

	if resp.StatusCode != http.StatusOK {
		return nil, &apperrors.ExternalError{
			StatusCode:  resp.StatusCode,
			Body:        body,
			ContentType: resp.Header.Get("Content-Type"),
		}
	}

	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperrors.NewGatewayError(fmt.Errorf("failed to decode processing API response: %w", err))
	}

	// Echo the submitted measurements if the reply left them out.
	if result.Patient.Weight.Unit == "" {
		result.Patient.Weight = req.Weight
	}
	if result.Patient.Height.Unit == "" {
		result.Patient.Height = req.Height
	}
	if len(bytes.TrimSpace(result.Results)) == 0 || bytes.Equal(bytes.TrimSpace(result.Results), []byte("null")) {
		result.Results = json.RawMessage("[]")
	}

	return &result, nil
}
