package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mosaicnetworks/provledger/src/metrics"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// REST routes of the ledger protocol
const (
	TransactionsPath = "/api/v1/transactions"
	StatusesPath     = "/api/v1/statuses"
	BlocksPath       = "/api/v1/blocks"
)

// StatusResponse is the body returned by the statuses route.
type StatusResponse struct {
	Status Status `json:"status"`
}

// ErrorResponse is the body returned with 4xx and 5xx codes.
type ErrorResponse struct {
	Message string `json:"message"`
}

// HTTPClientConfig configures an HTTPClient.
type HTTPClientConfig struct {
	// URL is the base URL of the ledger, e.g. http://localhost:9984
	URL string

	// Timeout bounds every request.
	Timeout time.Duration

	// BreakerFailures is the number of consecutive failures that opens the
	// circuit breaker.
	BreakerFailures uint32

	// BreakerTimeout is how long the breaker stays open before letting a
	// request through again.
	BreakerTimeout time.Duration
}

// HTTPClient is a Ledger talking to a remote ledger service. Requests go
// through a circuit breaker so that an unreachable ledger fails fast.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	metrics *metrics.Collector
	logger  *logrus.Entry
}

// NewHTTPClient ...
func NewHTTPClient(conf HTTPClientConfig, m *metrics.Collector, logger *logrus.Entry) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(conf.URL, "/"),
		client:  &http.Client{Timeout: conf.Timeout},
		metrics: m,
		logger:  logger,
	}

	failures := conf.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ledger " + c.baseURL,
		MaxRequests: 1,
		Timeout:     conf.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			c.logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
			c.metrics.SetBreakerState(name, float64(to))
		},
		IsSuccessful: func(err error) bool {
			// refusals and misses come from a healthy ledger
			var invalid *InvalidTransactionError
			return err == nil || errors.Is(err, ErrNotFound) || errors.As(err, &invalid) || errors.Is(err, context.Canceled)
		},
	})

	return c
}

// URL returns the base URL of the ledger.
func (c *HTTPClient) URL() string {
	return c.baseURL
}

// CreateRecord implements the Ledger interface.
func (c *HTTPClient) CreateRecord(ctx context.Context, tx *Transaction) (*Transaction, error) {
	return c.submit(ctx, "create", tx)
}

// TransferRecord implements the Ledger interface.
func (c *HTTPClient) TransferRecord(ctx context.Context, tx *Transaction) (*Transaction, error) {
	return c.submit(ctx, "transfer", tx)
}

func (c *HTTPClient) submit(ctx context.Context, op string, tx *Transaction) (*Transaction, error) {
	body, err := tx.Marshal()
	if err != nil {
		return nil, err
	}
	data, err := c.do(ctx, op, http.MethodPost, TransactionsPath, body)
	if err != nil {
		return nil, err
	}
	echo := new(Transaction)
	if err := echo.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", op, err)
	}
	return echo, nil
}

// RecordStatus implements the Ledger interface.
func (c *HTTPClient) RecordStatus(ctx context.Context, id string) (Status, error) {
	data, err := c.do(ctx, "status", http.MethodGet, StatusesPath+"/"+url.PathEscape(id), nil)
	if err != nil {
		return "", err
	}
	var res StatusResponse
	if err := DecodeJSON(data, &res); err != nil {
		return "", fmt.Errorf("decoding status response: %w", err)
	}
	return res.Status, nil
}

// EnclosingBlocks implements the Ledger interface.
func (c *HTTPClient) EnclosingBlocks(ctx context.Context, id string) ([]Block, error) {
	data, err := c.do(ctx, "blocks", http.MethodGet, BlocksPath+"?transaction_id="+url.QueryEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var blocks []Block
	if err := DecodeJSON(data, &blocks); err != nil {
		return nil, fmt.Errorf("decoding blocks response: %w", err)
	}
	return blocks, nil
}

// FetchRecord implements the Ledger interface.
func (c *HTTPClient) FetchRecord(ctx context.Context, id string) (*Transaction, error) {
	data, err := c.do(ctx, "fetch", http.MethodGet, TransactionsPath+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	tx := new(Transaction)
	if err := tx.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("decoding transaction: %w", err)
	}
	return tx, nil
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, body []byte) ([]byte, error) {
	start := time.Now()

	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.roundTrip(ctx, method, path, body)
	})

	outcome := metrics.OutcomeOK
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = metrics.OutcomeNotFound
	case err != nil:
		outcome = metrics.OutcomeError
	}
	c.metrics.ObserveLedgerCall(op, outcome, time.Since(start))

	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"operation": op,
			"path":      path,
		}).WithError(err).Debug("Ledger call failed")
		return nil, err
	}
	return res.([]byte), nil
}

func (c *HTTPClient) roundTrip(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusBadRequest:
		var e ErrorResponse
		DecodeJSON(data, &e)
		return nil, &InvalidTransactionError{Reason: e.Message}
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("ledger returned %s", resp.Status)
	}

	return data, nil
}
