package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/oksasatya/pixcredit/pkg/apperror"
	"github.com/oksasatya/pixcredit/pkg/httpclient"
)

const maxImageBytes = 10 << 20

// ClipDrop calls the ClipDrop text-to-image endpoint: prompt in, PNG bytes out.
type ClipDrop struct {
	url    string
	apiKey string
	http   *httpclient.Client
}

func NewClipDrop(url, apiKey string, hc *httpclient.Client) *ClipDrop {
	return &ClipDrop{url: url, apiKey: apiKey, http: hc}
}

func (c *ClipDrop) Generate(ctx context.Context, prompt string) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("prompt", prompt); err != nil {
		return nil, apperror.Internal(err)
	}
	if err := mw.Close(); err != nil {
		return nil, apperror.Internal(err)
	}

	req, err := http.NewRequest(http.MethodPost, c.url, &buf)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, apperror.ExternalService("image generation unavailable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, apperror.ExternalService("image generation unavailable", err)
	}
	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	var eb struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &eb)
	if resp.StatusCode == http.StatusBadRequest && eb.Error != "" {
		return nil, apperror.Validation(eb.Error)
	}
	return nil, apperror.ExternalService("image generation failed",
		fmt.Errorf("clipdrop status %d: %s", resp.StatusCode, eb.Error))
}
