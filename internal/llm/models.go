package llm

// ModelTier identifies one of the selectable Gemini tiers.
type ModelTier string

const (
	TierFast     ModelTier = "fast"
	TierBalanced ModelTier = "balanced"
	TierLegacy   ModelTier = "legacy"
)

type ModelInfo struct {
	Tier  ModelTier `json:"tier"`
	Name  string    `json:"name"`
	Model string    `json:"model"`
}

var modelTiers = []ModelInfo{
	{Tier: TierFast, Name: "Gemini 1.5 Flash (Fast)", Model: "gemini-1.5-flash"},
	{Tier: TierBalanced, Name: "Gemini 1.5 Pro (Balanced)", Model: "gemini-1.5-pro"},
	{Tier: TierLegacy, Name: "Gemini 1.0 Pro (Legacy)", Model: "gemini-pro"},
}

// Models returns the fixed tier enumeration in display order.
func Models() []ModelInfo {
	out := make([]ModelInfo, len(modelTiers))
	copy(out, modelTiers)
	return out
}

// ResolveTier maps a tier name to its model identifier.
func ResolveTier(tier string) (string, bool) {
	for _, m := range modelTiers {
		if string(m.Tier) == tier {
			return m.Model, true
		}
	}
	return "", false
}

// TierForModel is the reverse lookup, used when echoing settings back.
func TierForModel(model string) (ModelTier, bool) {
	for _, m := range modelTiers {
		if m.Model == model {
			return m.Tier, true
		}
	}
	return "", false
}
