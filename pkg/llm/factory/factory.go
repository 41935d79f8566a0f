package factory

import (
	"fmt"

	"wms-ops-agent/pkg/llm"
	"wms-ops-agent/pkg/llm/gateway"
	"wms-ops-agent/pkg/llm/ollama"
)

// NewLLMProvider selects the reasoning engine backend by name.
func NewLLMProvider(providerType, modelName, baseURL, apiKey, ollamaBaseURL string) (llm.LLMProvider, error) {
	switch providerType {
	case "gateway", "openai":
		if baseURL == "" {
			return nil, fmt.Errorf("gateway provider requires LLM_BASE_URL")
		}
		return gateway.NewGatewayProvider(apiKey, baseURL, modelName), nil
	case "ollama":
		if ollamaBaseURL == "" {
			ollamaBaseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
