package biz

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kart-io/logger"

	"github.com/mercora/volt/pkg/llm"
)

// FallbackAnswer is returned when generation fails. It carries no
// product ids and never exposes the upstream error.
const FallbackAnswer = "I'm having a little trouble right now. Could you try rephrasing your question? I'd love to help you find what you're looking for."

const systemPromptTemplate = `You are Volt, the friendly shopping assistant for the Mercora outdoor store.
Answer the customer's question using ONLY the product information provided below.
Only recommend products that are present in the provided context; never invent products or ids.
Keep answers short, warm, and specific.

When you recommend products, finish your reply with a final line of the form:
PRODUCTS: id1, id2
listing only ids that appear in the context. If you recommend nothing, omit the line.

%s%s`

// GeneratorConfig bounds the generation stage. Sampling parameters
// (temperature, token budget) live on the chat provider config.
type GeneratorConfig struct {
	// Timeout is the generation ceiling, tuned separately from retrieval.
	Timeout time.Duration
}

// AnswerDraft is the ungrounded generator output. ProductIDs is the
// model's self-reported list and must pass the grounding policy before
// reaching a client.
type AnswerDraft struct {
	Text       string
	ProductIDs []int64
	// Degraded marks a fallback produced in place of a model answer.
	Degraded bool
}

// Generator turns an assembled context into an answer draft.
type Generator struct {
	chatProvider llm.ChatProvider
	config       *GeneratorConfig
}

// NewGenerator creates the answer generation stage.
func NewGenerator(chatProvider llm.ChatProvider, config *GeneratorConfig) *Generator {
	return &Generator{chatProvider: chatProvider, config: config}
}

// Generate calls the model with the assembled context. Upstream failures
// degrade to the fallback answer, never to an error: the chat surface
// must always get something it can show.
func (g *Generator) Generate(ctx context.Context, payload *ContextPayload, question string) *AnswerDraft {
	genCtx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	resp, err := g.chatProvider.Generate(genCtx, g.buildUserPrompt(payload, question), g.buildSystemPrompt(payload))
	if err != nil {
		logger.Warnw("generation failed, returning fallback", "error", err.Error())
		return &AnswerDraft{Text: FallbackAnswer, Degraded: true}
	}

	text, ids := parseProductLine(resp.Content)
	if strings.TrimSpace(text) == "" {
		return &AnswerDraft{Text: FallbackAnswer, Degraded: true}
	}

	if resp.TokenUsage != nil {
		logger.Infow("answer generated", "tokens", resp.TokenUsage.TotalTokens, "products", len(ids))
	}
	return &AnswerDraft{Text: text, ProductIDs: ids}
}

func (g *Generator) buildSystemPrompt(payload *ContextPayload) string {
	contextBlock := "No matching products were found for this question. Say so politely and invite the customer to browse or rephrase.\n"
	if len(payload.Snippets) > 0 {
		contextBlock = "PRODUCT CONTEXT:\n" + payload.SnippetText() + "\n"
	}

	userBlock := ""
	if payload.UserSummary != "" {
		userBlock = "\nCUSTOMER:\n" + payload.UserSummary + "\n"
	}
	return fmt.Sprintf(systemPromptTemplate, contextBlock, userBlock)
}

func (g *Generator) buildUserPrompt(payload *ContextPayload, question string) string {
	if len(payload.History) == 0 {
		return question
	}

	var b strings.Builder
	b.WriteString("Conversation so far:\n")
	for _, turn := range payload.History {
		b.WriteString(turn.Role)
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}
	b.WriteString("\nCustomer: ")
	b.WriteString(question)
	return b.String()
}

// parseProductLine strips the trailing PRODUCTS: line from the model
// output and returns the ids it names. Unparseable tokens are dropped.
func parseProductLine(content string) (string, []int64) {
	lines := strings.Split(strings.TrimSpace(content), "\n")

	var ids []int64
	var kept []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(trimmed, "PRODUCTS:")
		if !ok {
			kept = append(kept, line)
			continue
		}
		for _, token := range strings.Split(rest, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			id, err := strconv.ParseInt(token, 10, 64)
			if err != nil || id <= 0 {
				continue
			}
			ids = append(ids, id)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n")), ids
}
