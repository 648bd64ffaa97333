package telemetry

import (
	"os"
)

var (
	observeEnabled        bool
	persistPromptsEnabled bool
)

func init() {
	// Read once at process start. Mid-run environment changes have no effect,
	// except for the explicit test overrides below.
	observeEnabled = os.Getenv("EDU_OBSERVE_JSON") == "1"
	persistPromptsEnabled = os.Getenv("EDU_PERSIST_PROMPTS") == "1"
}

// ObserveEnabled reports whether JSONL emission was enabled at startup.
func ObserveEnabled() bool {
	// Preserve the startup-evaluated value, but allow tests to enable mid-run.
	if os.Getenv("EDU_OBSERVE_JSON") == "1" {
		return true
	}
	return observeEnabled
}

// PersistPromptsEnabled reports whether per-turn prompt dumps were enabled at startup.
func PersistPromptsEnabled() bool {
	if os.Getenv("EDU_PERSIST_PROMPTS") == "1" {
		return true
	}
	return persistPromptsEnabled
}
