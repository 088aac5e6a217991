package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	reducer "github.com/tphakala/go-keyframe-reducer"
)

// Kept-ratio bands for colouring.
const (
	goodRatio = 0.10
	fairRatio = 0.50
)

// summaryRow is one line of the per-channel report.
type summaryRow struct {
	name       string
	mode       reducer.Mode
	sourceKeys int
	samples    int
	keys       int
	elapsed    time.Duration
	err        error
}

func newSummaryRow(res reducer.ChannelResult, mode reducer.Mode, sourceKeys int) summaryRow {
	row := summaryRow{
		name:       res.Name,
		mode:       mode,
		sourceKeys: sourceKeys,
		samples:    res.Samples,
		elapsed:    res.Elapsed,
		err:        res.Err,
	}
	if res.Curve != nil {
		row.keys = res.Curve.Len()
	}
	return row
}

// ratio is the fraction of samples kept as keys.
func (r summaryRow) ratio() float64 {
	if r.samples == 0 {
		return 0
	}
	return float64(r.keys) / float64(r.samples)
}

// writeSummary renders the per-channel table followed by a totals line.
func writeSummary(w io.Writer, rows []summaryRow, useColor bool) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Channel", "Mode", "Source", "Samples", "Keys", "Kept", "Time"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var red, green, yellow func(...any) string
	if useColor {
		red = color.New(color.FgRed).SprintFunc()
		green = color.New(color.FgGreen).SprintFunc()
		yellow = color.New(color.FgYellow).SprintFunc()
	} else {
		red = fmt.Sprint
		green = fmt.Sprint
		yellow = fmt.Sprint
	}

	var totalSamples, totalKeys, failed int
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		var kept string
		switch ratio := r.ratio(); {
		case r.err != nil:
			kept = red("FAILED")
			failed++
		case ratio <= goodRatio:
			kept = green(formatPercent(ratio))
		case ratio <= fairRatio:
			kept = yellow(formatPercent(ratio))
		default:
			kept = red(formatPercent(ratio))
		}
		totalSamples += r.samples
		totalKeys += r.keys

		data = append(data, []string{
			r.name,
			r.mode.String(),
			strconv.Itoa(r.sourceKeys),
			strconv.Itoa(r.samples),
			strconv.Itoa(r.keys),
			kept,
			r.elapsed.Round(time.Microsecond).String(),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	total := summaryRow{samples: totalSamples, keys: totalKeys}
	if _, err := fmt.Fprintf(w, "Reduced %d channels: %d samples -> %d keys (%s kept)\n",
		len(rows), totalSamples, totalKeys, formatPercent(total.ratio())); err != nil {
		return err
	}
	if failed > 0 {
		if _, err := fmt.Fprintf(w, "%s\n", red(fmt.Sprintf("%d channels failed", failed))); err != nil {
			return err
		}
	}
	return nil
}

func formatPercent(ratio float64) string {
	return strconv.FormatFloat(ratio*100, 'f', 1, 64) + "%"
}
