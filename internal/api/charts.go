package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/fleet.report/internal/fleet"
	"github.com/banshee-data/fleet.report/internal/httputil"
)

// showRankingsChart renders the current induction ranking as a bar chart
// (HTML). This is a debugging-only endpoint for eyeballing the score
// spread without the dashboard UI.
func (s *Server) showRankingsChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	records, err := s.loadRecords()
	if err != nil {
		httputil.InternalServerError(w, "failed to load fleet log")
		return
	}

	referenceDate := fleet.LatestDate(records)
	scored := fleet.ScoreWith(fleet.Aggregate(records, referenceDate), s.cfg.Weights())
	if len(scored) == 0 {
		httputil.BadRequest(w, "fleet log is empty, nothing to chart")
		return
	}

	trainIDs := make([]string, 0, len(scored))
	composites := make([]opts.BarData, 0, len(scored))
	fitness := make([]opts.BarData, 0, len(scored))
	mileage := make([]opts.BarData, 0, len(scored))
	for _, sc := range scored {
		trainIDs = append(trainIDs, sc.TrainID)
		composites = append(composites, opts.BarData{Value: sc.CompositeScore})
		fitness = append(fitness, opts.BarData{Value: sc.FitnessScore})
		mileage = append(mileage, opts.BarData{Value: sc.MileageScore})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Fleet Rankings", Theme: "dark", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Induction Ranking",
			Subtitle: fmt.Sprintf("reference date %s, %d trains", referenceDate.Format(apiDateLayout), len(scored)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "score"}),
	)
	bar.SetXAxis(trainIDs).
		AddSeries("composite", composites).
		AddSeries("fitness", fitness).
		AddSeries("mileage", mileage)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
