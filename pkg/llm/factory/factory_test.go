package factory

import (
	"testing"

	"wms-ops-agent/pkg/llm/gateway"
	"wms-ops-agent/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		baseURL  string
		wantErr  bool
		check    func(t *testing.T, p interface{})
	}{
		{
			name:     "gateway",
			provider: "gateway",
			baseURL:  "http://gw/v1",
			check: func(t *testing.T, p interface{}) {
				assert.IsType(t, &gateway.GatewayProvider{}, p)
			},
		},
		{
			name:     "gateway without url",
			provider: "gateway",
			wantErr:  true,
		},
		{
			name:     "ollama defaults its url",
			provider: "ollama",
			check: func(t *testing.T, p interface{}) {
				o, ok := p.(*ollama.OllamaProvider)
				require.True(t, ok)
				assert.Equal(t, "http://localhost:11434", o.BaseURL)
			},
		},
		{
			name:     "unknown",
			provider: "carrier-pigeon",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewLLMProvider(tt.provider, "m", tt.baseURL, "", "")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}
