package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingsWithDefaults(t *testing.T) {
	s := Settings{AmountTolerancePercent: 10}.WithDefaults()
	assert.Equal(t, 3.0, s.DateToleranceDays)
	assert.Equal(t, 10.0, s.AmountTolerancePercent)
	assert.Equal(t, 95.0, s.AutoMatchThreshold)
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		s       Settings
		wantErr bool
	}{
		{"defaults", DefaultSettings(), false},
		{"negative date tolerance", Settings{DateToleranceDays: -1, AmountTolerancePercent: 5, AutoMatchThreshold: 95}, true},
		{"negative amount tolerance", Settings{DateToleranceDays: 3, AmountTolerancePercent: -5, AutoMatchThreshold: 95}, true},
		{"threshold above 100", Settings{DateToleranceDays: 3, AmountTolerancePercent: 5, AutoMatchThreshold: 101}, true},
		{"threshold at 100", Settings{DateToleranceDays: 3, AmountTolerancePercent: 5, AutoMatchThreshold: 100}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
