package usecase

import (
	"context"
	"strings"
	"time"

	"predu/internal/domain/entity"
	"predu/internal/domain/service"
	"predu/pkg/errors"
	"predu/pkg/logger"
)

// ChatFallbackReply is the single canned reply shown when the prompt
// service fails. The conversation stays usable.
const ChatFallbackReply = "Lo siento, no pude responder en este momento. Intenta de nuevo en unos segundos."

const chatAction = "vocational_chat"

type RateLimiter interface {
	Allow(userID, action string) (bool, time.Duration)
}

type VocationalChatUseCase struct {
	prompts service.PromptService
	limiter RateLimiter
}

func NewVocationalChatUseCase(prompts service.PromptService, limiter RateLimiter) *VocationalChatUseCase {
	return &VocationalChatUseCase{
		prompts: prompts,
		limiter: limiter,
	}
}

func (uc *VocationalChatUseCase) Ask(ctx context.Context, userID string, input entity.VocationalChatInput) (*entity.VocationalChatOutput, error) {
	input.Message = strings.TrimSpace(input.Message)
	if input.Message == "" {
		return nil, errors.BadRequest("Message is required", nil)
	}

	if uc.limiter != nil {
		if ok, wait := uc.limiter.Allow(userID, chatAction); !ok {
			return nil, errors.TooManyRequests("Too many messages, retry in " + wait.Round(time.Second).String())
		}
	}

	out, err := uc.prompts.Complete(ctx, input)
	if err != nil {
		logger.Warn("Vocational chat failed for %s: %v", userID, err)
		return &entity.VocationalChatOutput{Response: ChatFallbackReply, Fallback: true}, nil
	}
	return out, nil
}
