package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() SystemParameters {
	return SystemParameters{
		Latitude:        35,
		Longitude:       -118,
		SystemSize:      10,
		PanelEfficiency: 0.20,
		TiltAngle:       20,
		AzimuthAngle:    180,
		SystemLosses:    0.14,
		Albedo:          0.2,
	}
}

func TestValidate_AcceptsReferenceSite(t *testing.T) {
	require.NoError(t, validParams().Validate())
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SystemParameters)
		field  string
		key    string
		msg    string
	}{
		{
			name:   "latitude above range",
			mutate: func(p *SystemParameters) { p.Latitude = 91 },
			field:  "Latitude",
			key:    "latitude",
			msg:    "Latitude must be between -90 and 90",
		},
		{
			name:   "panel efficiency below minimum",
			mutate: func(p *SystemParameters) { p.PanelEfficiency = 0.05 },
			field:  "Panel Efficiency",
			key:    "panel_efficiency",
			msg:    "Panel Efficiency must be between 0.1 and 0.3",
		},
		{
			name:   "system losses above maximum",
			mutate: func(p *SystemParameters) { p.SystemLosses = 0.6 },
			field:  "System Losses",
			key:    "system_losses",
			msg:    "System Losses must be between 0 and 0.5",
		},
		{
			name:   "longitude below range",
			mutate: func(p *SystemParameters) { p.Longitude = -180.5 },
			field:  "Longitude",
			key:    "longitude",
		},
		{
			name:   "system size too small",
			mutate: func(p *SystemParameters) { p.SystemSize = 0.05 },
			field:  "System Size",
			key:    "system_size_kwp",
		},
		{
			name:   "tilt negative",
			mutate: func(p *SystemParameters) { p.TiltAngle = -1 },
			field:  "Tilt Angle",
			key:    "tilt_angle",
		},
		{
			name:   "azimuth above range",
			mutate: func(p *SystemParameters) { p.AzimuthAngle = 181 },
			field:  "Azimuth Angle",
			key:    "azimuth_angle",
		},
		{
			name:   "albedo NaN",
			mutate: func(p *SystemParameters) { p.Albedo = math.NaN() },
			field:  "Albedo",
			key:    "albedo",
		},
		{
			name:   "infinite system size",
			mutate: func(p *SystemParameters) { p.SystemSize = math.Inf(1) },
			field:  "System Size",
			key:    "system_size_kwp",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams()
			tc.mutate(&p)

			err := p.Validate()
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
			assert.Equal(t, tc.key, verr.Key)
			assert.Contains(t, err.Error(), tc.field)
			if tc.msg != "" {
				assert.Equal(t, tc.msg, err.Error())
			}
		})
	}
}

func TestValidate_FailsFastOnFirstField(t *testing.T) {
	p := validParams()
	p.Latitude = math.NaN()
	p.SystemLosses = 0.9

	var verr *ValidationError
	require.ErrorAs(t, p.Validate(), &verr)
	assert.Equal(t, "Latitude", verr.Field)
	assert.True(t, math.IsNaN(verr.Value))
}

func TestValidate_BoundsAreInclusive(t *testing.T) {
	lower := SystemParameters{
		Latitude: -90, Longitude: -180, SystemSize: 0.1, PanelEfficiency: 0.1,
		TiltAngle: 0, AzimuthAngle: -180, SystemLosses: 0, Albedo: 0,
	}
	upper := SystemParameters{
		Latitude: 90, Longitude: 180, SystemSize: 1000, PanelEfficiency: 0.3,
		TiltAngle: 90, AzimuthAngle: 180, SystemLosses: 0.5, Albedo: 1,
	}
	assert.NoError(t, lower.Validate())
	assert.NoError(t, upper.Validate())
}

func TestPercentToFraction(t *testing.T) {
	assert.InDelta(t, 0.2, PercentToFraction(20), 1e-12)
	assert.InDelta(t, 0.14, PercentToFraction(14), 1e-12)

	p := validParams()
	p.PanelEfficiency = 20 // forgot to convert
	assert.Error(t, p.Validate())
	p.PanelEfficiency = PercentToFraction(20)
	assert.NoError(t, p.Validate())
}
