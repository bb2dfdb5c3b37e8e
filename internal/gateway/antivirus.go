package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"submissionsbff/pkg/types"
)

// AntivirusGateway talks to the scanning service. Its client must not retry:
// a replayed stream would be scanned and billed twice.
type AntivirusGateway struct {
	service
}

func NewAntivirusGateway(baseURL string, client *http.Client) *AntivirusGateway {
	return &AntivirusGateway{service{name: "antivirus", baseURL: baseURL, client: client}}
}

// SendFile streams content to the scanner for asynchronous scanning.
func (g *AntivirusGateway) SendFile(ctx context.Context, details types.FileDetails, content []byte) error {
	meta, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode file details: %w", err)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="fileDetails"`)
	h.Set("Content-Type", "application/json")
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create file details part: %w", err)
	}
	if _, err := part.Write(meta); err != nil {
		return fmt.Errorf("failed to write file details part: %w", err)
	}

	part, err = w.CreateFormFile("fileStream", details.FileName+details.Extension)
	if err != nil {
		return fmt.Errorf("failed to create file stream part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("failed to write file stream part: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close multipart body: %w", err)
	}

	endpoint := g.url("/files/stream/%s/%s", url.PathEscape(details.Collection), url.PathEscape(details.Key))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, &body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := g.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return g.expect(resp)
}

// ScanFile submits content for a synchronous scan and returns the verdict.
func (g *AntivirusGateway) ScanFile(ctx context.Context, details types.FileDetails, content []byte) (string, error) {
	details.Content = base64.StdEncoding.EncodeToString(content)

	data, err := json.Marshal(details)
	if err != nil {
		return "", fmt.Errorf("failed to encode file details: %w", err)
	}

	endpoint := g.url("/SyncAV/%s/%s", url.PathEscape(details.Collection), url.PathEscape(details.Key))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := g.expect(resp); err != nil {
		return "", err
	}

	verdict, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read scan result: %w", err)
	}

	return strings.Trim(strings.TrimSpace(string(verdict)), `"`), nil
}
