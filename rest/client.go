package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/evergreen-ci/gimlet"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

const (
	defaultClientPort int = 3000
	maxClientPort         = 65535
)

// Client provides an interface for interacting with a remote change
// point Service.
type Client struct {
	host   string
	prefix string
	port   int
	client *http.Client
}

// NewClient takes host, port, and URI prefix information and
// constructs a new Client.
func NewClient(host string, port int, prefix string) (*Client, error) {
	c := &Client{client: &http.Client{}}

	return c.initClient(host, port, prefix)
}

// NewClientFromExisting takes an existing http.Client object and
// produces a new Client object.
func NewClientFromExisting(client *http.Client, host string, port int, prefix string) (*Client, error) {
	if client == nil {
		return nil, errors.New("must use a non-nil existing client")
	}

	c := &Client{client: client}

	return c.initClient(host, port, prefix)
}

func (c *Client) initClient(host string, port int, prefix string) (*Client, error) {
	if err := c.SetHost(host); err != nil {
		return nil, err
	}

	if err := c.SetPort(port); err != nil {
		return nil, err
	}

	c.SetPrefix(prefix)

	return c, nil
}

////////////////////////////////////////////////////////////////////////
//
// Configuration Interface
//
////////////////////////////////////////////////////////////////////////

// SetHost changes the hostname, including the leading "http(s)".
func (c *Client) SetHost(h string) error {
	if !strings.HasPrefix(h, "http") {
		return errors.Errorf("host '%s' is malformed. must start with 'http'", h)
	}

	c.host = strings.TrimSuffix(h, "/")

	return nil
}

func (c *Client) Host() string { return c.host }

// SetPort changes the port used for the client. If the port is invalid,
// returns an error and sets the port to the default value (3000).
func (c *Client) SetPort(p int) error {
	if p <= 0 || p >= maxClientPort {
		c.port = defaultClientPort
		return errors.Errorf("cannot set the port to %d, using %d instead", p, defaultClientPort)
	}

	c.port = p
	return nil
}

func (c *Client) Port() int { return c.port }

// SetPrefix sets the part of the URI between the host and the route.
func (c *Client) SetPrefix(p string) { c.prefix = strings.Trim(p, "/") }

func (c *Client) Prefix() string { return c.prefix }

func (c *Client) getURL(endpoint string) string {
	var url []string

	if c.port == 80 || c.port == 0 {
		url = append(url, c.host)
	} else {
		url = append(url, fmt.Sprintf("%s:%d", c.host, c.port))
	}

	if c.prefix != "" {
		url = append(url, c.prefix)
	}

	if endpoint = strings.Trim(endpoint, "/"); endpoint != "" {
		url = append(url, endpoint)
	}

	return strings.Join(url, "/")
}

////////////////////////////////////////////////////////////////////////
//
// Public Operations that Interact with the Service
//
////////////////////////////////////////////////////////////////////////

func (c *Client) do(ctx context.Context, method, endpoint string, body interface{}, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "problem building request body")
		}
	}

	url := c.getURL(endpoint)
	grip.Debugln(method, url)
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "problem building request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "problem making request to '%s'", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errResp := gimlet.ErrorResponse{}
		if err = gimlet.GetJSON(resp.Body, &errResp); err != nil {
			return errors.Errorf("request to '%s' failed with status %d", url, resp.StatusCode)
		}
		errResp.StatusCode = resp.StatusCode
		return errResp
	}

	return errors.Wrap(gimlet.GetJSON(resp.Body, out), "problem reading response")
}

func (c *Client) GetStatus(ctx context.Context) (*StatusResponse, error) {
	out := &StatusResponse{}
	if err := c.do(ctx, http.MethodGet, "/v1/status", nil, out); err != nil {
		return nil, err
	}

	return out, nil
}

// DetectChangePoints tests the series synchronously.
func (c *Client) DetectChangePoints(ctx context.Context, req DetectRequest) (*DetectResponse, error) {
	out := &DetectResponse{}
	if err := c.do(ctx, http.MethodPost, "/v1/change_points/detect", req, out); err != nil {
		return nil, err
	}

	return out, nil
}

// SubmitJob queues a detection job on the service and returns its id.
func (c *Client) SubmitJob(ctx context.Context, req DetectRequest) (string, error) {
	out := &JobResponse{}
	if err := c.do(ctx, http.MethodPost, "/v1/change_points/jobs", req, out); err != nil {
		return "", err
	}

	return out.ID, nil
}

func (c *Client) GetJob(ctx context.Context, id string) (*JobResponse, error) {
	out := &JobResponse{}
	if err := c.do(ctx, http.MethodGet, "/v1/change_points/jobs/"+url.PathEscape(id), nil, out); err != nil {
		return nil, err
	}

	return out, nil
}
