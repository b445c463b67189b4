package risk

import "time"

// Level is the three-tier risk classification.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Indicator is one of the fixed behavioral dimensions scored from video.
type Indicator string

const (
	EyeContact          Indicator = "eye_contact"
	ResponseToName      Indicator = "response_to_name"
	SocialEngagement    Indicator = "social_engagement"
	RepetitiveMovements Indicator = "repetitive_movements"
	PointingGesturing   Indicator = "pointing_gesturing"
)

// AllIndicators lists the indicator keys in their canonical order.
var AllIndicators = []Indicator{
	EyeContact,
	ResponseToName,
	SocialEngagement,
	RepetitiveMovements,
	PointingGesturing,
}

// Indicators maps indicator keys to a 0-10 score where 10 is fully typical.
// For repetitive_movements 10 means none observed. Missing keys mean "not observed".
type Indicators map[Indicator]float64

// VideoAnalysis is the parsed outcome of one successful video analysis.
type VideoAnalysis struct {
	VideoID      string     `json:"videoId"`
	Category     string     `json:"category"`
	Indicators   Indicators `json:"indicators"`
	Summary      string     `json:"summary"`
	Observations []string   `json:"observations"`
}

// Breakdown records how the combined score was produced.
type Breakdown struct {
	QuestionnaireConcern int     `json:"questionnaireConcern"`
	VideoConcern         *int    `json:"videoConcern"`
	QuestionnaireWeight  float64 `json:"questionnaireWeight"`
	VideoWeight          float64 `json:"videoWeight"`
	CombinedScore        int     `json:"combinedScore"`
}

// Assessment is the final fused risk classification for one screening.
// It is immutable once generated.
type Assessment struct {
	Level           Level           `json:"level"`
	Score           int             `json:"score"`
	CombinedScore   int             `json:"combinedScore"`
	VideoIndicators Indicators      `json:"videoIndicators"`
	VideoAnalyses   []VideoAnalysis `json:"videoAnalyses"`
	Explanation     string          `json:"explanation"`
	Breakdown       Breakdown       `json:"breakdown"`
	Recommendations []string        `json:"recommendations"`
	GeneratedAt     time.Time       `json:"generatedAt"`
}
