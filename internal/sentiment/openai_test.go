package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newChatServer answers chat completions with reply and records the requested model.
func newChatServer(t *testing.T, reply string, gotModel *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var req struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		*gotModel = req.Model

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"choices": []map[string]any{{"index": 0, "message": map[string]string{"role": "assistant", "content": reply}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIScorer(t *testing.T) {
	var model string
	srv := newChatServer(t, " -0.6 ", &model)

	s, err := NewOpenAIScorer("test-key", "", srv.URL+"/v1/")
	require.NoError(t, err)

	got, err := s.Score(context.Background(), "this keeps breaking")
	require.NoError(t, err)
	assert.InDelta(t, -0.6, got, 1e-9)
	assert.Equal(t, contract.DefaultOpenAIModel, model)
}

func TestOpenAIScorerBadReply(t *testing.T) {
	var model string
	srv := newChatServer(t, "I think it's positive", &model)

	s, err := NewOpenAIScorer("test-key", "custom-model", srv.URL+"/v1")
	require.NoError(t, err)

	_, err = s.Score(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected model reply")
	assert.Equal(t, "custom-model", model)
}

func TestNewOpenAIScorerRequiresKey(t *testing.T) {
	_, err := NewOpenAIScorer("", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), APIKeyEnv)
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		reply   string
		want    float64
		wantErr bool
	}{
		{"0.5", 0.5, false},
		{"`-0.25`", -0.25, false},
		{"0.8.", 0.8, false},
		{".5", 0.5, false},
		{"3", 1, false},
		{"-7.5", -1, false},
		{"NaN", 0, true},
		{"positive", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.reply, func(t *testing.T) {
			got, err := ParseScore(tt.reply)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestNew(t *testing.T) {
	s, err := New(&contract.Config{Scorer: schema.LexiconScorer})
	require.NoError(t, err)
	assert.IsType(t, &LexiconScorer{}, s)

	s, err = New(&contract.Config{Scorer: schema.NoScorer})
	require.NoError(t, err)
	assert.Nil(t, s)

	t.Setenv(APIKeyEnv, "test-key")
	s, err = New(&contract.Config{Scorer: schema.OpenAIScorer, OpenAIModel: "m"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIScorer{}, s)

	_, err = New(&contract.Config{Scorer: "vader"})
	assert.Error(t, err)
}
