// Package openaicompat translates OpenAI chat-completions traffic into
// music generation calls so OpenAI-compatible clients can use the gateway
// unchanged.
package openaicompat

// ChatMessage is one message of a chat-completions conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the inbound chat-completions body. Only the fields the
// shim consumes are modelled; unknown fields are ignored.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// Choice is one completion alternative.
type Choice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// Usage mirrors the OpenAI token accounting; the gateway always reports
// zeros since no tokens are consumed.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the chat-completion-shaped answer.
type ChatResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Stream  bool     `json:"stream"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}
