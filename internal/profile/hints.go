package profile

// Hints are coarse device capabilities read once at startup.
type Hints struct {
	ReducedMotion bool
	MemoryGB      float64
	Cores         int
	ViewportW     float64
	ViewportH     float64
}

// InitialTier picks the tier the engine starts in. Unknown capabilities
// (zero values) are treated optimistically.
func InitialTier(h Hints) Tier {
	if h.ReducedMotion {
		return TierLow
	}
	if (h.Cores > 0 && h.Cores <= 2) || (h.MemoryGB > 0 && h.MemoryGB < 2) {
		return TierLow
	}
	small := h.ViewportW > 0 && h.ViewportW < 768
	if small || (h.MemoryGB > 0 && h.MemoryGB < 4) || (h.Cores > 0 && h.Cores <= 4) {
		return TierMedium
	}
	return TierHigh
}
