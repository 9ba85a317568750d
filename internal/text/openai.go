package text

import (
	"context"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

//
// DefaultModel is the encoder model requested from the embeddings
// endpoint; any OpenAI-compatible server exposing a 384-wide
// sentence-transformer under this name will do.
//
const DefaultModel = "sentence-transformers/all-MiniLM-L6-v2"

//
// OpenAIEncoder adapts an OpenAI-compatible /v1/embeddings endpoint to
// the Encoder interface. Typically pointed at a local encoder sidecar
// rather than api.openai.com; the base URL, model and key are all
// configurable. Vectors are re-normalised on the way out so callers
// can rely on unit length regardless of server behaviour.
//
type OpenAIEncoder struct {
	client *openai.Client
	model  string
}

//
// create an encoder adapter; baseURL and model may be blank for the
// library defaults
//
func NewOpenAIEncoder(baseURL, apiKey, model string) *OpenAIEncoder {

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultModel
	}

	return &OpenAIEncoder{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (e *OpenAIEncoder) Embed(ctx context.Context, texts []string) ([][]float32, error) {

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, errors.Wrap(err, "embeddings request failed")
	}
	if len(resp.Data) != len(texts) {
		return nil, errors.Errorf("embeddings response has %d vectors for %d texts", len(resp.Data), len(texts))
	}

	// responses are not guaranteed to arrive in input order
	vecs := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vecs) {
			return nil, errors.Errorf("embeddings response index %d out of range", d.Index)
		}
		v := make([]float32, len(d.Embedding))
		copy(v, d.Embedding)
		normalize(v)
		vecs[d.Index] = v
	}

	return vecs, nil
}
