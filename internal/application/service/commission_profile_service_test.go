package service

import (
	"testing"

	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/sangkips/salon-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name   string
		input  CommissionProfileInput
		fields []string
	}{
		{
			name:  "valid item based",
			input: CommissionProfileInput{Name: "A", Type: enum.ProfileTypeItemBased, ServiceRate: dec("10"), ProductRate: dec("0")},
		},
		{
			name:  "valid target based without tiers",
			input: CommissionProfileInput{Name: "B", Type: enum.ProfileTypeTargetBased},
		},
		{
			name:   "missing name and negative rates",
			input:  CommissionProfileInput{Type: enum.ProfileTypeItemBased, ServiceRate: dec("-1"), ProductRate: dec("-2")},
			fields: []string{"name", "service_rate", "product_rate"},
		},
		{
			name:   "unknown type",
			input:  CommissionProfileInput{Name: "C", Type: enum.ProfileType(7)},
			fields: []string{"type"},
		},
		{
			name: "tiers on item based",
			input: CommissionProfileInput{Name: "D", Type: enum.ProfileTypeItemBased,
				Tiers: []TierInput{{Threshold: dec("0"), Rate: dec("1")}}},
			fields: []string{"tiers"},
		},
		{
			name: "thresholds not increasing",
			input: CommissionProfileInput{Name: "E", Type: enum.ProfileTypeTargetBased, Tiers: []TierInput{
				{Threshold: dec("1000"), Rate: dec("5")},
				{Threshold: dec("1000"), Rate: dec("6")},
				{Threshold: dec("500"), Rate: dec("-1")},
			}},
			fields: []string{"tiers[1].threshold", "tiers[2].rate", "tiers[2].threshold"},
		},
		{
			name:   "scope on target based",
			input:  CommissionProfileInput{Name: "F", Type: enum.ProfileTypeTargetBased, Scope: []string{"Haircut"}},
			fields: []string{"scope"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateProfile(&tt.input)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var got []string
			for _, fe := range apperror.GetAppError(err).Errors {
				got = append(got, fe.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestCommissionProfileService_UpdateReplacesTiers(t *testing.T) {
	env := newTestEnv(t)

	profile, err := env.profiles.CreateProfile(env.ctx, &CommissionProfileInput{
		Name: "Target", Type: enum.ProfileTypeTargetBased,
		Tiers: []TierInput{{Threshold: dec("0"), Rate: dec("2")}, {Threshold: dec("5000"), Rate: dec("6")}},
	})
	require.NoError(t, err)
	require.Len(t, profile.Tiers, 2)

	updated, err := env.profiles.UpdateProfile(env.ctx, profile.ID, &CommissionProfileInput{
		Name: "Target v2", Type: enum.ProfileTypeTargetBased,
		Tiers: []TierInput{{Threshold: dec("10000"), Rate: dec("10")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Target v2", updated.Name)

	stored, err := env.profiles.GetProfile(env.ctx, profile.ID)
	require.NoError(t, err)
	require.Len(t, stored.Tiers, 1)
	assertDecimal(t, "10000", stored.Tiers[0].Threshold)

	// switching type clears the tiers
	switched, err := env.profiles.UpdateProfile(env.ctx, profile.ID, &CommissionProfileInput{
		Name: "Flat", Type: enum.ProfileTypeItemBased, ServiceRate: dec("7"), Scope: []string{" Haircut ", ""},
	})
	require.NoError(t, err)
	assert.Empty(t, switched.Tiers)
	assert.Equal(t, []string{"Haircut"}, switched.Scope)

	list, err := env.profiles.ListProfiles(env.ctx, &pagination.PaginationParams{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}
