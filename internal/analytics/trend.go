package analytics

import (
	"time"

	"github.com/astrocoach/insight/internal/models"
)

// TrendDirection labels the near-term demand momentum.
type TrendDirection string

const (
	TrendRising TrendDirection = "rising"
	TrendSoft   TrendDirection = "soft"
)

// Trend summarizes demand momentum within an analysis window. It is a
// planning signal, not a precise forecast: the mean of the last windowDays
// points is compared against the mean of the first windowDays points.
type Trend struct {
	Direction  TrendDirection `json:"direction"`
	EarlierAvg float64        `json:"earlier_avg"`
	RecentAvg  float64        `json:"recent_avg"`
	Points     int            `json:"points"`
}

// trendWindow is the number of leading/trailing points each average uses.
const trendWindow = 7

// TrendSignal filters demand to [from, to] (inclusive; zero times disable
// that bound) and compares recent momentum against the window's start.
// With fewer points than the window, the comparison uses what is available.
func TrendSignal(demand []models.DemandPoint, from, to time.Time) Trend {
	var filtered []models.DemandPoint
	for _, d := range demand {
		if !from.IsZero() && d.Date.Before(from) {
			continue
		}
		if !to.IsZero() && d.Date.After(to) {
			continue
		}
		filtered = append(filtered, d)
	}

	trend := Trend{Direction: TrendSoft, Points: len(filtered)}
	if len(filtered) == 0 {
		return trend
	}

	head := filtered
	if len(head) > trendWindow {
		head = head[:trendWindow]
	}
	tail := filtered
	if len(tail) > trendWindow {
		tail = tail[len(tail)-trendWindow:]
	}

	trend.EarlierAvg = meanSubscriptions(head)
	trend.RecentAvg = meanSubscriptions(tail)
	if trend.RecentAvg > trend.EarlierAvg {
		trend.Direction = TrendRising
	}
	return trend
}

func meanSubscriptions(points []models.DemandPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum int64
	for _, p := range points {
		sum += p.Subscriptions
	}
	return float64(sum) / float64(len(points))
}
