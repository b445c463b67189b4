package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		combined int
		want     Level
	}{
		{0, LevelLow},
		{34, LevelLow},
		{35, LevelMedium},
		{59, LevelMedium},
		{60, LevelHigh},
		{100, LevelHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.combined), "combined=%d", tt.combined)
	}
}

func TestFuse_QuestionnaireOnly(t *testing.T) {
	a, err := Fuse(Input{QuestionnaireScore: 2, MaxScore: 15}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, LevelLow, a.Level)
	assert.Equal(t, 2, a.Score)
	assert.Equal(t, 13, a.CombinedScore)
	assert.Nil(t, a.VideoIndicators)
	assert.Empty(t, a.VideoAnalyses)
	assert.Equal(t, 13, a.Breakdown.QuestionnaireConcern)
	assert.Nil(t, a.Breakdown.VideoConcern)
	assert.Equal(t, 1.0, a.Breakdown.QuestionnaireWeight)
	assert.Equal(t, 0.0, a.Breakdown.VideoWeight)
	assert.Equal(t, DefaultRecommendations(LevelLow), a.Recommendations)
	assert.Equal(t, fixedNow, a.GeneratedAt)
	assert.Equal(t,
		"Questionnaire responses were mostly typical (score: 2/15). No video was provided for analysis. Combined assessment suggests typical developmental patterns.",
		a.Explanation)
}

func TestFuse_CombinedEqualsQuestionnaireConcernWithoutVideo(t *testing.T) {
	for score := 0; score <= 15; score++ {
		a, err := Fuse(Input{QuestionnaireScore: score, MaxScore: 15}, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, a.Breakdown.QuestionnaireConcern, a.CombinedScore, "score=%d", score)
	}
}

func TestFuse_EmptyIndicatorsTreatedAsNoVideo(t *testing.T) {
	a, err := Fuse(Input{QuestionnaireScore: 6, MaxScore: 12, Indicators: Indicators{}}, fixedNow)
	require.NoError(t, err)

	assert.Nil(t, a.VideoIndicators)
	assert.Nil(t, a.Breakdown.VideoConcern)
	assert.Equal(t, 0.0, a.Breakdown.VideoWeight)
	assert.Equal(t, 50, a.CombinedScore)
	assert.Equal(t, LevelMedium, a.Level)
}

func TestFuse_QuestionnaireAndVideo(t *testing.T) {
	ind := Indicators{
		EyeContact:          8,
		ResponseToName:      8,
		SocialEngagement:    8,
		RepetitiveMovements: 9,
		PointingGesturing:   8,
	}
	a, err := Fuse(Input{QuestionnaireScore: 10, MaxScore: 15, Indicators: ind}, fixedNow)
	require.NoError(t, err)

	// 66.67*0.6 + 18*0.4 = 47.2
	assert.Equal(t, 47, a.CombinedScore)
	assert.Equal(t, LevelMedium, a.Level)
	assert.Equal(t, 67, a.Breakdown.QuestionnaireConcern)
	require.NotNil(t, a.Breakdown.VideoConcern)
	assert.Equal(t, 18, *a.Breakdown.VideoConcern)
	assert.Equal(t, QuestionnaireWeight, a.Breakdown.QuestionnaireWeight)
	assert.Equal(t, VideoWeight, a.Breakdown.VideoWeight)
	assert.Equal(t, ind, a.VideoIndicators)
	assert.Contains(t, a.Explanation, "significant areas of concern (score: 10/15)")
	assert.Contains(t, a.Explanation, "Positive indicators observed: good eye contact, responsive to name, good social engagement, uses pointing and gestures.")
	assert.NotContains(t, a.Explanation, "Video analysis detected")
}

func TestFuse_CallerRecommendationsUsedVerbatim(t *testing.T) {
	recs := []string{"Talk to your clinic"}
	a, err := Fuse(Input{QuestionnaireScore: 14, MaxScore: 15, Recommendations: recs}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, LevelHigh, a.Level)
	assert.Equal(t, recs, a.Recommendations)
}

func TestFuse_DefaultRecommendationsPerTier(t *testing.T) {
	for _, level := range []Level{LevelLow, LevelMedium, LevelHigh} {
		recs := DefaultRecommendations(level)
		assert.GreaterOrEqual(t, len(recs), 3)
		assert.LessOrEqual(t, len(recs), 4)
	}

	a, err := Fuse(Input{QuestionnaireScore: 9, MaxScore: 15}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, LevelHigh, a.Level)
	assert.Equal(t, DefaultRecommendations(LevelHigh), a.Recommendations)
}

func TestFuse_CombinedScoreStaysInRange(t *testing.T) {
	worst := Indicators{EyeContact: 0, ResponseToName: 0, SocialEngagement: 0, RepetitiveMovements: 0, PointingGesturing: 0}
	a, err := Fuse(Input{QuestionnaireScore: 15, MaxScore: 15, Indicators: worst}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 100, a.CombinedScore)

	best := Indicators{EyeContact: 10, ResponseToName: 10, SocialEngagement: 10, RepetitiveMovements: 10, PointingGesturing: 10}
	a, err = Fuse(Input{QuestionnaireScore: 0, MaxScore: 15, Indicators: best}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 0, a.CombinedScore)
	assert.Equal(t, LevelLow, a.Level)
}

func TestFuse_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{"zero max", Input{QuestionnaireScore: 1, MaxScore: 0}},
		{"negative score", Input{QuestionnaireScore: -1, MaxScore: 15}},
		{"indicator above range", Input{QuestionnaireScore: 1, MaxScore: 15, Indicators: Indicators{EyeContact: 11}}},
		{"indicator below range", Input{QuestionnaireScore: 1, MaxScore: 15, Indicators: Indicators{EyeContact: -1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fuse(tt.in, fixedNow)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestVideoConcern(t *testing.T) {
	_, ok := VideoConcern(nil)
	assert.False(t, ok)

	v, ok := VideoConcern(Indicators{EyeContact: 3})
	assert.True(t, ok)
	assert.InDelta(t, 70.0, v, 0.0001)
}

func TestFuse_ClampsOvershootingQuestionnaire(t *testing.T) {
	a, err := Fuse(Input{QuestionnaireScore: 16, MaxScore: 15}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, 107, a.Breakdown.QuestionnaireConcern)
	assert.Equal(t, 100, a.CombinedScore)
	assert.Equal(t, 100, a.Breakdown.CombinedScore)
	assert.Equal(t, LevelHigh, a.Level)
}
