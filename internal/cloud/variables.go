package cloud

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	authHeader          = "X-Auth-Token"
	defaultQueryTimeout = 5 * time.Second
	lastValuePath       = "/{variable}/lv"
)

// ErrRemoteQuery marks any failure to obtain a control variable value.
var ErrRemoteQuery = errors.New("remote variable query failed")

// VariableConfig points at one device on the cloud REST API.
type VariableConfig struct {
	APIBase     string // https://industrial.api.ubidots.com/api/v1.6/devices
	DeviceLabel string
	Token       string
	Timeout     time.Duration
}

// VariableClient reads the last value of device variables.
type VariableClient struct {
	http *resty.Client
}

func NewVariableClient(cfg VariableConfig) *VariableClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	base := strings.TrimRight(cfg.APIBase, "/") + "/" + cfg.DeviceLabel

	client := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetHeader(authHeader, cfg.Token).
		SetHeader("Accept", "text/plain")

	return &VariableClient{http: client}
}

// LastValue returns the numeric last value of variable. Transport errors,
// timeouts, non-200 statuses and non-numeric bodies all wrap ErrRemoteQuery.
func (c *VariableClient) LastValue(ctx context.Context, variable string) (float64, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("variable", variable).
		Get(lastValuePath)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrRemoteQuery, variable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("%w: %s: status %d", ErrRemoteQuery, variable, resp.StatusCode())
	}

	body := strings.TrimSpace(resp.String())
	v, err := strconv.ParseFloat(body, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: parse %q: %w", ErrRemoteQuery, variable, body, err)
	}
	return v, nil
}
