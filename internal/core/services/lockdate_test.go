package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ledgerkeep/ledgerkeep/internal/core/services"
)

func TestIsLocked(t *testing.T) {
	lockDate := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		lockDate     *time.Time
		documentDate time.Time
		want         bool
	}{
		{
			name:         "no lock date locks nothing",
			lockDate:     nil,
			documentDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			want:         false,
		},
		{
			name:         "date before lock date is locked",
			lockDate:     &lockDate,
			documentDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			want:         true,
		},
		{
			name:         "date equal to lock date is locked",
			lockDate:     &lockDate,
			documentDate: lockDate,
			want:         true,
		},
		{
			name:         "date after lock date is open",
			lockDate:     &lockDate,
			documentDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.IsLocked(tt.lockDate, tt.documentDate))
		})
	}
}
