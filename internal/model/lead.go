package model

// LeadStatus represents a lead's position in the sales pipeline.
type LeadStatus string

const (
	StatusNew       LeadStatus = "new"
	StatusContacted LeadStatus = "contacted"
	StatusQualified LeadStatus = "qualified"
	StatusWon       LeadStatus = "won"
	StatusLost      LeadStatus = "lost"
)

// Valid reports whether s is one of the known pipeline statuses.
func (s LeadStatus) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusWon, StatusLost:
		return true
	}
	return false
}

// Terminal reports whether the lead has left the active pipeline.
func (s LeadStatus) Terminal() bool {
	return s == StatusWon || s == StatusLost
}

// Temperature classifies lead engagement.
type Temperature string

const (
	TemperatureHot  Temperature = "hot"
	TemperatureWarm Temperature = "warm"
	TemperatureCold Temperature = "cold"
)

// AttrCompany is the attributes key holding the lead's company name.
// Attribute keys are UPPER_SNAKE by convention.
const AttrCompany = "COMPANY_NAME"

// DefaultScore is assumed for leads without a computed score. Consumers
// other than the scoring engine treat an unscored lead as neutral.
const DefaultScore = 50

// Lead represents a prospective customer record. Engines treat a Lead as
// an immutable input and only derive transient values from it; the store
// layer owns creation and mutation.
type Lead struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone,omitempty"`
	Status        LeadStatus        `json:"status"`
	Source        string            `json:"source,omitempty"`
	AssignedTo    string            `json:"assigned_to,omitempty"` // empty = unassigned
	Temperature   Temperature       `json:"temperature,omitempty"` // empty = derive from score
	Score         *float64          `json:"lead_score,omitempty"`  // 0-100, nil = not yet scored
	Tags          []string          `json:"tags,omitempty"`
	CreatedAt     Timestamp         `json:"created_at,omitempty"`
	LastContacted Timestamp         `json:"last_contacted,omitempty"`
	WonDate       Timestamp         `json:"won_date,omitempty"`
	ExpectedValue *float64          `json:"expected_value,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`
}

// ScoreOrDefault returns the lead's score, or DefaultScore when unset.
func (l Lead) ScoreOrDefault() float64 {
	if l.Score == nil {
		return DefaultScore
	}
	return *l.Score
}

// Company returns the company name attribute, if present.
func (l Lead) Company() string {
	return l.Attributes[AttrCompany]
}
