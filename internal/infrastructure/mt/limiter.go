package mt

import (
	"context"
	"math"

	"golang.org/x/time/rate"

	"github.com/doeshing/doctrans/internal/ports"
)

// rateLimited spaces calls to a backend that enforces request quotas.
type rateLimited struct {
	inner   ports.TranslationModel
	limiter *rate.Limiter
}

func newRateLimited(inner ports.TranslationModel, rps float64) *rateLimited {
	burst := int(math.Ceil(rps))
	if burst < 1 {
		burst = 1
	}
	return &rateLimited{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (m *rateLimited) Name() string {
	return m.inner.Name()
}

func (m *rateLimited) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return m.inner.Translate(ctx, text, sourceLang, targetLang)
}
