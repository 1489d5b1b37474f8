package pacing

import "time"

// RiskLevel classifies how worried a promoter should be about a show.
type RiskLevel string

const (
	RiskHealthy        RiskLevel = "HEALTHY"
	RiskNeedsAttention RiskLevel = "NEEDS_ATTENTION"
	RiskAtRisk         RiskLevel = "AT_RISK"
)

// Confidence qualifies a sales projection.
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// defaultCapacity is assumed when a show has no capacity on record.
const defaultCapacity = 1000

// Show carries the show fields the scorer needs. Callers map their own
// records into this; the package never touches storage.
type Show struct {
	Date        time.Time
	Capacity    *int
	TicketPrice *float64
}

func (s Show) capacity() int {
	if s.Capacity != nil && *s.Capacity > 0 {
		return *s.Capacity
	}
	return defaultCapacity
}

// Snapshot is a point-in-time reading of ticket sales for a show.
type Snapshot struct {
	CapturedAt       time.Time
	TicketsSold      int
	TicketsAvailable int
	GrossSales       float64
}

// Assessment is the output of AssessRisk.
type Assessment struct {
	Level           RiskLevel `json:"risk_level"`
	Score           float64   `json:"risk_score"`
	SellThroughPct  float64   `json:"sell_through_pct"`
	DaysUntilShow   int       `json:"days_until_show"`
	TicketsSold     int       `json:"tickets_sold"`
	Capacity        int       `json:"capacity"`
	Recommendations []string  `json:"recommendations"`
	Reasoning       string    `json:"reasoning"`
}

// Point is one entry of a pacing curve.
type Point struct {
	Date           time.Time `json:"date"`
	TicketsSold    int       `json:"tickets_sold"`
	SellThroughPct float64   `json:"sell_through_pct"`
	DaysUntilShow  int       `json:"days_until_show"`
	GrossSales     float64   `json:"gross_sales"`
}

// Prediction is the output of Predict.
type Prediction struct {
	ProjectedSellThroughPct float64    `json:"projected_sell_through_pct"`
	ProjectedGross          float64    `json:"projected_gross"`
	Confidence              Confidence `json:"confidence"`
	Note                    string     `json:"note"`
}
