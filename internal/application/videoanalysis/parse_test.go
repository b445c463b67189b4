package videoanalysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/devscreen/internal/domain/risk"
)

func TestParse_Fenced(t *testing.T) {
	raw := "```json\n{\"indicators\":{\"eye_contact\":8,\"pointing_gesturing\":6.5},\"summary\":\"ok\",\"observations\":[\"looks at camera\"]}\n```"
	ind, summary, obs, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, risk.Indicators{risk.EyeContact: 8, risk.PointingGesturing: 6.5}, ind)
	assert.Equal(t, "ok", summary)
	assert.Equal(t, []string{"looks at camera"}, obs)
}

func TestParse_NullIndicatorsDropped(t *testing.T) {
	ind, _, _, err := Parse(`{"indicators":{"eye_contact":null,"social_engagement":3}}`)
	require.NoError(t, err)
	assert.Equal(t, risk.Indicators{risk.SocialEngagement: 3}, ind)
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"empty":         "   ",
		"not json":      "the child seems happy",
		"no indicators": `{"summary":"x"}`,
		"out of range":  `{"indicators":{"eye_contact":11}}`,
		"negative":      `{"indicators":{"eye_contact":-1}}`,
		"unknown key":   `{"indicators":{"smiling":5}}`,
		"string score":  `{"indicators":{"eye_contact":"7"}}`,
		"bad summary":   `{"indicators":{},"summary":3}`,
		"array root":    `[1,2,3]`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, _, err := Parse(raw)
			assert.True(t, errors.Is(err, ErrMalformedOutput), "got %v", err)
		})
	}
}
