package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
)

// Stats is a snapshot of cache counters. Size reflects the current
// entry count; the remaining counters survive Clear and reset only via
// ResetStats.
type Stats struct {
	Size      int   `json:"size"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache memoizes validation results keyed by (validator identity,
// input, context). Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, validatorID, input string, vctx map[string]any) (models.ValidationResult, bool)
	Put(ctx context.Context, validatorID, input string, vctx map[string]any, result models.ValidationResult)
	Clear(ctx context.Context)
	Stats() Stats
	ResetStats()
}

// Key derives the cache key for one validation call. The context map
// is serialized with encoding/json, which writes map keys in sorted
// order, so equal contexts always produce equal keys.
func Key(validatorID, input string, vctx map[string]any) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00", validatorID, input)

	if len(vctx) > 0 {
		if data, err := json.Marshal(vctx); err == nil {
			h.Write(data)
		} else {
			// Unserializable context still needs a distinct key.
			fmt.Fprintf(h, "%v", vctx)
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}
