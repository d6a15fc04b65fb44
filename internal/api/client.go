package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

const (
	headerAuthorization = "Authorization"
	headerBearer        = "Bearer"
)

type Config struct {
	BaseURL        string `mapstructure:"base_url"`
	RequestTimeout int    `mapstructure:"request_timeout_sec"`
}

// TokenProvider supplies the bearer token attached to authenticated calls.
// The auth session implements it.
type TokenProvider interface {
	AccessToken() string
}

// Client is the shared HTTP layer every remote call goes through.
type Client struct {
	baseURL string
	timeout time.Duration
	tokens  TokenProvider
	http    *fasthttp.Client
}

func NewClient(config Config, tokens TokenProvider) *Client {
	timeout := time.Duration(config.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		timeout: timeout,
		tokens:  tokens,
		http:    &fasthttp.Client{},
	}
}

func (c *Client) GetJSON(ctx context.Context, path string, out interface{}) error {
	return c.doJSON(ctx, fasthttp.MethodGet, path, nil, out)
}

func (c *Client) PostJSON(ctx context.Context, path string, body interface{}, out interface{}) error {
	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}
	return c.doJSON(ctx, fasthttp.MethodPost, path, encoded, out)
}

// PostMultipart uploads a file plus form fields as multipart/form-data,
// matching the intake upload endpoint contract.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, fileField, filename string, file io.Reader, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}

	part, err := writer.CreateFormFile(fileField, filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to copy file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return c.do(ctx, fasthttp.MethodPost, path, writer.FormDataContentType(), buf.Bytes(), out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body []byte, out interface{}) error {
	return c.do(ctx, method, path, "application/json", body, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	if body != nil {
		req.Header.SetContentType(contentType)
		req.SetBody(body)
	}
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set(headerAuthorization, headerBearer+" "+token)
		}
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}

	status := resp.StatusCode()
	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		return &StatusError{Status: status, Body: string(resp.Body())}
	}

	if out != nil && len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
	}
	return nil
}

// StatusError carries a non-2xx response back to the caller.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}
