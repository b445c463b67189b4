package risk

var defaultRecommendations = map[Level][]string{
	LevelLow: {
		"Your child is showing typical developmental patterns",
		"Continue regular developmental monitoring",
		"You can repeat this screening in 3-6 months if desired",
	},
	LevelMedium: {
		"Some responses indicate areas to monitor",
		"Discuss these results with your pediatrician",
		"Consider repeating this screening in 1-2 months",
		"Early intervention can be beneficial",
	},
	LevelHigh: {
		"Multiple indicators suggest need for further evaluation",
		"Schedule an appointment with your pediatrician soon",
		"Request a referral to a developmental specialist",
		"Early intervention services can begin before formal diagnosis",
	},
}

// DefaultRecommendations returns a copy of the canned list for a tier.
func DefaultRecommendations(level Level) []string {
	recs, ok := defaultRecommendations[level]
	if !ok {
		recs = defaultRecommendations[LevelLow]
	}
	return append([]string(nil), recs...)
}
