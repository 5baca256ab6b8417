package fetch

import (
	"context"

	"go.uber.org/zap"

	"github.com/Prthmsh0210/hire-nerd/internal/backend"
)

const msgAnalyticsFailed = "Failed to load analytics data. Please try again later."

// AnalyticsSource loads the dashboard aggregates.
type AnalyticsSource interface {
	Analytics(ctx context.Context) (*backend.Analytics, error)
}

// Dashboard is the analytics payload with its provenance.
type Dashboard struct {
	*backend.Analytics
	// Degraded is set when the payload is the built-in sample data.
	Degraded bool
	Notice   string
}

// Analytics loads the dashboard. On any failure it serves the Fallback sample
// data so charts always receive complete series.
type Analytics struct {
	source AnalyticsSource
	logger *zap.Logger
	cell   cell[*Dashboard]
}

func NewAnalytics(source AnalyticsSource, logger *zap.Logger) *Analytics {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analytics{source: source, logger: logger}
}

func (a *Analytics) State() State[*Dashboard] {
	return a.cell.get()
}

// Load fetches the aggregates. The returned state is always Data.
func (a *Analytics) Load(ctx context.Context) State[*Dashboard] {
	a.cell.set(State[*Dashboard]{Phase: Loading})

	payload, err := a.source.Analytics(ctx)
	if err != nil || payload == nil {
		a.logger.Warn("loading analytics, serving sample data", zap.Error(err))

		return a.cell.set(State[*Dashboard]{
			Phase: Data,
			Data: &Dashboard{
				Analytics: Fallback(),
				Degraded:  true,
				Notice:    msgAnalyticsFailed,
			},
		})
	}

	payload.Normalize()

	return a.cell.set(State[*Dashboard]{Phase: Data, Data: &Dashboard{Analytics: payload}})
}

// Fallback is the sample dashboard shown when the backend is unavailable.
// Every series is non-empty.
func Fallback() *backend.Analytics {
	return &backend.Analytics{
		PieData:             []float64{61, 28, 11},
		BarData:             []float64{50, 60, 70, 80, 90},
		NoShows:             2,
		UpcomingInterviews:  5,
		AutoMatchedProfiles: 3,
		UpcomingInterviewsDetails: []backend.InterviewDetail{
			{Name: "Tejas Kulkarni", Role: "AVP SALES", Date: "April 11"},
		},
		FunnelStages: backend.Series{
			Labels: []string{"Applied", "Screened", "Interviewed", "Offered", "Hired"},
			Data:   []float64{100, 70, 40, 20, 10},
		},
		CQITrend: backend.Series{
			Labels: []string{"Jan", "Feb", "Mar"},
			Data:   []float64{65, 70, 75},
		},
		RedFlagFrequency: backend.Series{
			Labels: []string{"Job Hopping", "Skill Mismatch"},
			Data:   []float64{5, 3},
		},
	}
}
