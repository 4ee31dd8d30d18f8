package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
)

// UploadFallbackMessage is shown when a failed upload carries no message
const UploadFallbackMessage = "Failed to parse PDF"

type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// UploadPDF sends the file at path to /api/process-invoice as the multipart
// field "file". It returns ErrNotIndexed when the backend answers 2xx without
// success=true.
func (c *Client) UploadPDF(ctx context.Context, path string) (*UploadResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	// Stream the file instead of buffering the whole PDF in memory
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(path)))
		header.Set("Content-Type", "application/pdf")

		part, err := mw.CreatePart(header)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, f); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+processInvoicePath, pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		pr.Close()
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp) {
		return nil, decodeAPIError(resp, UploadFallbackMessage)
	}

	var uploadResp UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: UploadFallbackMessage}
	}

	if !uploadResp.Success {
		return &uploadResp, ErrNotIndexed
	}

	return &uploadResp, nil
}
