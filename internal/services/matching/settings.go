package matching

import "fmt"

// Settings is the user-facing matcher configuration. AmountTolerancePercent
// and AutoMatchThreshold are whole percentages (5 means 5%); the engine
// divides by 100 where needed.
type Settings struct {
	DateToleranceDays      float64 `json:"date_tolerance_days"`
	AmountTolerancePercent float64 `json:"amount_tolerance_percent"`
	AutoMatchThreshold     float64 `json:"auto_match_threshold"`

	// EnableDuplicateDetection is declared for forward compatibility and
	// not consulted by the matching algorithm.
	EnableDuplicateDetection bool `json:"enable_duplicate_detection"`
}

// DefaultSettings returns the stock configuration.
func DefaultSettings() Settings {
	return Settings{
		DateToleranceDays:        3,
		AmountTolerancePercent:   5,
		AutoMatchThreshold:       95,
		EnableDuplicateDetection: true,
	}
}

// WithDefaults fills zero-valued numeric fields from DefaultSettings.
func (s Settings) WithDefaults() Settings {
	def := DefaultSettings()
	if s.DateToleranceDays == 0 {
		s.DateToleranceDays = def.DateToleranceDays
	}
	if s.AmountTolerancePercent == 0 {
		s.AmountTolerancePercent = def.AmountTolerancePercent
	}
	if s.AutoMatchThreshold == 0 {
		s.AutoMatchThreshold = def.AutoMatchThreshold
	}
	return s
}

// Validate rejects settings the scoring formula cannot work with.
func (s Settings) Validate() error {
	if s.DateToleranceDays <= 0 {
		return fmt.Errorf("date tolerance must be positive, got %v", s.DateToleranceDays)
	}
	if s.AmountTolerancePercent < 0 {
		return fmt.Errorf("amount tolerance must not be negative, got %v", s.AmountTolerancePercent)
	}
	if s.AutoMatchThreshold <= 0 || s.AutoMatchThreshold > 100 {
		return fmt.Errorf("auto-match threshold must be in (0,100], got %v", s.AutoMatchThreshold)
	}
	return nil
}

// Options configures a single FindCandidates call. Unlike Settings, the
// amount tolerance here is a fraction (0.05 means 5%).
type Options struct {
	DateToleranceDays      float64
	AmountTolerancePercent float64
	MinSimilarityScore     float64
}

// DefaultOptions returns the standalone candidate-finder defaults.
func DefaultOptions() Options {
	return Options{
		DateToleranceDays:      3,
		AmountTolerancePercent: 0.05,
		MinSimilarityScore:     0.6,
	}
}
