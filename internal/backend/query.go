package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// QueryFallbackMessage is shown when a failed query carries no message
const QueryFallbackMessage = "Failed to get answer"

type QueryRequest struct {
	Question string `json:"question"`
}

// QueryResponse is the backend's answer. The statistics are optional; older
// backends only send the answer.
type QueryResponse struct {
	Answer        string `json:"answer"`
	ChunksUsed    *int   `json:"chunksUsed,omitempty"`
	ContextLength *int   `json:"contextLength,omitempty"`
}

// HasStats reports whether the backend sent any retrieval statistics
func (r *QueryResponse) HasStats() bool {
	return r.ChunksUsed != nil || r.ContextLength != nil
}

// Query asks the backend a question about the indexed document
func (c *Client) Query(ctx context.Context, question string) (*QueryResponse, error) {
	body, err := json.Marshal(QueryRequest{Question: question})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+queryPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp) {
		return nil, decodeAPIError(resp, QueryFallbackMessage)
	}

	var queryResp QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&queryResp); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: QueryFallbackMessage}
	}

	return &queryResp, nil
}
