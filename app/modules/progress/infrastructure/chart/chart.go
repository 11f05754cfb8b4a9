package progresschart

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
)

// ErrNoSnapshots means there is no history to draw for the requested
// decoder and label.
var ErrNoSnapshots = errors.New("no snapshots to chart")

// Render writes a PNG line chart of the decoder's progress history for one
// line label. Points must be ordered oldest first.
func Render(w io.Writer, decoder sharedtypes.DecoderName, label sharedtypes.LineLabel, points []sharedtypes.ProgressPoint) error {
	if len(points) == 0 {
		return ErrNoSnapshots
	}

	// go-chart needs two values to draw a line; a single snapshot becomes
	// a flat segment.
	if len(points) == 1 {
		only := points[0]
		points = []sharedtypes.ProgressPoint{
			{Total: only.Total, RecordedAt: only.RecordedAt.Add(-time.Hour)},
			only,
		}
	}

	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	for i, point := range points {
		xs[i] = point.RecordedAt
		ys[i] = float64(point.Total)
	}

	graph := chart.Chart{
		Title: fmt.Sprintf("%s %s top-50 patch", decoder, label),
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "total patch",
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    string(label),
				XValues: xs,
				YValues: ys,
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render progress chart: %w", err)
	}
	return nil
}
