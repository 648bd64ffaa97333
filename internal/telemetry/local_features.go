package telemetry

import (
	"context"

	"github.com/hmunir/eduguide/internal/metrics"
)

// EmitLocalFeatures records basic text features of one user utterance.
func EmitLocalFeatures(ctx context.Context, user string) {
	if !ObserveEnabled() {
		return
	}
	turnID, _ := TurnIDFromContext(ctx)
	f := metrics.CountFeatures(user)
	Emit("local_features", map[string]any{
		"turn_id":          turnID,
		"features_version": "1",
		"user": map[string]any{
			"bytes":     f.Bytes,
			"runes":     f.Runes,
			"words":     f.Words,
			"lines":     f.Lines,
			"sentences": f.Sentences,
		},
	})
}
