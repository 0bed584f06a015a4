package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/validator"
)

// CachedValidator wraps any validator behind the same contract and
// memoizes its results. Wrapping replaces the mixin approach: the
// wrapped validator needs no knowledge of the cache.
type CachedValidator struct {
	inner validator.Validator
	cache Cache
	id    string
}

func NewCachedValidator(inner validator.Validator, c Cache) *CachedValidator {
	return &CachedValidator{
		inner: inner,
		cache: c,
		id:    ValidatorID(inner),
	}
}

// ValidatorID derives a stable identity from the validator's concrete
// type and a fingerprint of its configuration (via Instructions, which
// is stable per configuration). Two differently-configured instances
// of the same type therefore never collide in a shared cache.
func ValidatorID(v validator.Validator) string {
	sum := sha256.Sum256([]byte(v.Instructions()))
	return fmt.Sprintf("%T:%s", v, hex.EncodeToString(sum[:])[:16])
}

func (c *CachedValidator) Name() string {
	return c.inner.Name()
}

func (c *CachedValidator) Validate(ctx context.Context, output string, vctx map[string]any) models.ValidationResult {
	if result, ok := c.cache.Get(ctx, c.id, output, vctx); ok {
		return result
	}

	result := c.inner.Validate(ctx, output, vctx)
	c.cache.Put(ctx, c.id, output, vctx, result)
	return result
}

func (c *CachedValidator) Instructions() string {
	return c.inner.Instructions()
}

// HitRate reports the underlying cache's hit rate; useful for
// diagnostics only.
func (c *CachedValidator) HitRate() float64 {
	return c.cache.Stats().HitRate()
}
