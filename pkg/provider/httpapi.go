package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxResponseBytes bounds how much of a vendor response is read.
const maxResponseBytes = 4 << 20

// httpAPI is the shared request plumbing of the REST adapters.
type httpAPI struct {
	provider  string
	baseURL   string
	client    *http.Client
	authorize func(*http.Request)
	// decodeError extracts the vendor error code and message from a non 2xx
	// response body.
	decodeError func(body []byte) (code, message string)
}

// request describes one vendor call. Body is sent as is with ContentType.
type request struct {
	Method      string
	Path        string
	Body        io.Reader
	ContentType string
}

func jsonRequest(method, path string, v any) (request, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return request{}, err
	}
	return request{Method: method, Path: path, Body: bytes.NewReader(payload), ContentType: "application/json"}, nil
}

// do performs req and decodes a 2xx JSON response into out when out is not
// nil. Non 2xx responses become *APIError.
func (a *httpAPI) do(ctx context.Context, req request, out any) (http.Header, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, strings.TrimRight(a.baseURL, "/")+req.Path, req.Body)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", a.provider, err)
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	if a.authorize != nil {
		a.authorize(httpReq)
	}

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, classify(a.provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, classify(a.provider, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Provider: a.provider, StatusCode: resp.StatusCode, Body: string(body)}
		if a.decodeError != nil {
			apiErr.Code, apiErr.Message = a.decodeError(body)
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return resp.Header, apiErr
	}

	if out != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.Header, &APIError{
				Provider:   a.provider,
				StatusCode: resp.StatusCode,
				Message:    "malformed response: " + err.Error(),
				Body:       string(body),
			}
		}
	}
	return resp.Header, nil
}

// notFoundAs marks a 404 vendor response as ErrTemplateNotFound. The vendor
// error stays in the chain.
func notFoundAs(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", ErrTemplateNotFound, err)
	}
	return err
}
