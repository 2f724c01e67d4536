package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned when the control API reports HTTP 404, e.g.
// resetting a device name that isn't currently registered.
var ErrNotFound = errors.New("control api: not found")

func decodeJSON(resp *http.Response, v any) error {
	return json.NewDecoder(resp.Body).Decode(v)
}

// Client is a thin wrapper around http.Client for talking to a running
// Server, grounded on the teacher's GatewayClient (an embedded
// http.Client plus a base URL and a logger).
type Client struct {
	http.Client
	baseURL string
	log     *logrus.Entry
}

// NewClient builds a Client against a control API listening at
// baseURL (e.g. "http://127.0.0.1:8090").
func NewClient(baseURL string, log *logrus.Entry) *Client {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Client{baseURL: baseURL, log: log.WithField("component", "control-client")}
}

// ListDevices fetches GET /devices.
func (c *Client) ListDevices() ([]DeviceSummary, error) {
	resp, err := c.Get(c.baseURL + "/devices")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list devices: unexpected status %d", resp.StatusCode)
	}
	var out []DeviceSummary
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ResetDevice issues POST /devices/{name}/reset?mode=soft|hard. mode
// must be "soft" or "hard"; any other value is sent through as given
// and the server defaults to soft.
func (c *Client) ResetDevice(name, mode string) error {
	url := fmt.Sprintf("%s/devices/%s/reset?mode=%s", c.baseURL, name, mode)
	resp, err := c.Post(url, "application/octet-stream", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return statusToErr(resp.StatusCode)
}

// Reload issues POST /reload.
func (c *Client) Reload() error {
	resp, err := c.Post(c.baseURL+"/reload", "application/octet-stream", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return statusToErr(resp.StatusCode)
}

func statusToErr(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("control api: unexpected status %d", code)
	}
}
