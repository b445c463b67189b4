package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate_NoAnalysesIsNil(t *testing.T) {
	assert.Nil(t, Aggregate(nil))
	assert.Nil(t, Aggregate([]VideoAnalysis{}))
}

func TestAggregate_SingleResultUnchanged(t *testing.T) {
	ind := Indicators{EyeContact: 7, ResponseToName: 5, SocialEngagement: 6, RepetitiveMovements: 9, PointingGesturing: 4}
	got := Aggregate([]VideoAnalysis{{VideoID: "v1", Indicators: ind}})
	assert.Equal(t, ind, got)
}

func TestAggregate_SingleResultRounded(t *testing.T) {
	got := Aggregate([]VideoAnalysis{{VideoID: "v1", Indicators: Indicators{EyeContact: 7.5, PointingGesturing: 3.2}}})
	assert.Equal(t, Indicators{EyeContact: 8, PointingGesturing: 3}, got)
}

func TestAggregate_MeanPerKeyAndOmitsMissing(t *testing.T) {
	analyses := []VideoAnalysis{
		{VideoID: "social", Indicators: Indicators{EyeContact: 3, SocialEngagement: 8}},
		{VideoID: "play", Indicators: Indicators{EyeContact: 4, RepetitiveMovements: 2}},
		{VideoID: "free", Indicators: Indicators{EyeContact: 8}},
	}
	got := Aggregate(analyses)

	assert.Equal(t, Indicators{
		EyeContact:          5, // (3+4+8)/3
		SocialEngagement:    8,
		RepetitiveMovements: 2,
	}, got)
	assert.NotContains(t, got, ResponseToName)
	assert.NotContains(t, got, PointingGesturing)
}

func TestAggregate_OrderIndependent(t *testing.T) {
	a := VideoAnalysis{VideoID: "a", Indicators: Indicators{EyeContact: 3, ResponseToName: 10, PointingGesturing: 6}}
	b := VideoAnalysis{VideoID: "b", Indicators: Indicators{EyeContact: 4, SocialEngagement: 1}}
	c := VideoAnalysis{VideoID: "c", Indicators: Indicators{ResponseToName: 5, PointingGesturing: 7, RepetitiveMovements: 8}}

	want := Aggregate([]VideoAnalysis{a, b, c})
	perms := [][]VideoAnalysis{
		{a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a},
	}
	for _, p := range perms {
		assert.Equal(t, want, Aggregate(p))
	}
}

func TestAggregate_NoDefinedKeysYieldsEmptySet(t *testing.T) {
	got := Aggregate([]VideoAnalysis{{VideoID: "v1", Indicators: Indicators{}}})
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, ok := VideoConcern(got)
	assert.False(t, ok)
}
