package questionnaire

// QuestionType enum
type QuestionType string

const (
	QuestionTypeYesNo QuestionType = "yes_no"
)

// Option is one selectable answer. Points: 0 = no concern, higher = more concern.
type Option struct {
	Value  string `json:"value" yaml:"value"`
	Label  string `json:"label" yaml:"label"`
	Points int    `json:"points" yaml:"points"`
}

// Question value object
type Question struct {
	ID         string       `json:"id" yaml:"id"`
	Text       string       `json:"text" yaml:"text"`
	Type       QuestionType `json:"type" yaml:"type"`
	Options    []Option     `json:"options" yaml:"options"`
	Weight     float64      `json:"weight" yaml:"weight"`
	IsCritical bool         `json:"isCritical" yaml:"is_critical"`
}

// MaxPoints is the highest point value any answer can carry.
func (q Question) MaxPoints() int {
	max := 0
	for _, o := range q.Options {
		if o.Points > max {
			max = o.Points
		}
	}
	return max
}

// Section groups questions under a heading.
type Section struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Thresholds are absolute cutoffs on the raw score, ascending.
type Thresholds struct {
	Low    int `json:"low" yaml:"low"`
	Medium int `json:"medium" yaml:"medium"`
	High   int `json:"high" yaml:"high"`
}

// Definition is an immutable age-bracket questionnaire.
type Definition struct {
	Bracket                Bracket    `json:"ageGroup" yaml:"age_group"`
	Name                   string     `json:"name" yaml:"name"`
	Sections               []Section  `json:"sections" yaml:"sections"`
	MaxPossibleScore       int        `json:"maxPossibleScore" yaml:"max_possible_score"`
	RiskThresholds         Thresholds `json:"riskThresholds" yaml:"risk_thresholds"`
	CriticalItemsThreshold int        `json:"criticalItemsThreshold" yaml:"critical_items_threshold"`
}

// Questions returns every question in section order.
func (d Definition) Questions() []Question {
	var out []Question
	for _, s := range d.Sections {
		out = append(out, s.Questions...)
	}
	return out
}

// Question finds a question by id.
func (d Definition) Question(id string) (Question, bool) {
	for _, s := range d.Sections {
		for _, q := range s.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return Question{}, false
}

// clone deep-copies the definition so registry entries cannot be mutated through it.
func (d Definition) clone() Definition {
	out := d
	out.Sections = make([]Section, len(d.Sections))
	for i, s := range d.Sections {
		cs := s
		cs.Questions = make([]Question, len(s.Questions))
		for j, q := range s.Questions {
			cq := q
			cq.Options = append([]Option(nil), q.Options...)
			cs.Questions[j] = cq
		}
		out.Sections[i] = cs
	}
	return out
}

// Response is one caregiver answer.
type Response struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
	Points     int    `json:"points"`
}
