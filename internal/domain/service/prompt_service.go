package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"predu/internal/domain/entity"
	"predu/pkg/logger"
)

type PromptService interface {
	Complete(ctx context.Context, input entity.VocationalChatInput) (*entity.VocationalChatOutput, error)
}

// FlowPromptService calls a deployed prompt flow over HTTP. The flow owns the
// instruction wording, the length cap and the topic restriction.
type FlowPromptService struct {
	flowURL string
	client  *http.Client
}

func NewFlowPromptService(flowURL string, timeout time.Duration) *FlowPromptService {
	return &FlowPromptService{
		flowURL: flowURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type flowRequest struct {
	Data entity.VocationalChatInput `json:"data"`
}

type flowResponse struct {
	Result *entity.VocationalChatOutput `json:"result"`
	Error  *struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

func (s *FlowPromptService) Complete(ctx context.Context, input entity.VocationalChatInput) (*entity.VocationalChatOutput, error) {
	if s.flowURL == "" {
		return nil, fmt.Errorf("prompt flow URL is not configured")
	}

	jsonData, err := json.Marshal(flowRequest{Data: input})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.flowURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call prompt flow: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Warn("Prompt flow returned status %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("prompt flow returned status %d", resp.StatusCode)
	}

	var flowResp flowResponse
	if err := json.Unmarshal(body, &flowResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}
	if flowResp.Error != nil {
		return nil, fmt.Errorf("prompt flow error: %s", flowResp.Error.Message)
	}
	if flowResp.Result == nil || flowResp.Result.Response == "" {
		return nil, fmt.Errorf("prompt flow returned an empty response")
	}

	return flowResp.Result, nil
}
