package openai

import (
	"context"
	"sync"

	"github.com/Farerworks/secondbrain-coach/internal/domain"
)

// LazyClient defers client construction to first use and shares the
// constructed client process-wide. Safe for concurrent use; the
// underlying model client lives for the process lifetime.
type LazyClient struct {
	cfg    Config
	once   sync.Once
	client *Client
	err    error
}

// NewLazyClient creates a client shell; no connection or validation
// happens until the first embedding call.
func NewLazyClient(cfg Config) *LazyClient {
	return &LazyClient{cfg: cfg}
}

func (l *LazyClient) init() (*Client, error) {
	l.once.Do(func() {
		if l.cfg.APIKey == "" && l.cfg.BaseURL == "" {
			l.err = domain.NewDomainErrorWithCause(
				domain.ErrCodeModelUnavailable, "embedding model unavailable", ErrNoAPIKey)
			return
		}
		l.client = NewClientWithConfig(l.cfg)
	})
	return l.client, l.err
}

// EmbedTexts initializes the shared client on first call and embeds the
// texts in order. Initialization or inference failures surface as
// MODEL_UNAVAILABLE; callers must propagate them, not degrade to empty
// vectors.
func (l *LazyClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	client, err := l.init()
	if err != nil {
		return nil, err
	}
	vectors, err := client.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(
			domain.ErrCodeModelUnavailable, "embedding model unavailable", err)
	}
	return vectors, nil
}
