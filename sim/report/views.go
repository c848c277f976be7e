package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/rawsim/sim"
)

// View file names written by WriteViews.
const (
	AssignmentMatrixFile     = "assignment_matrix.csv"
	ThroughputSeriesFile     = "throughput_series.csv"
	TrafficHistogramFile     = "traffic_histogram.csv"
	CumulativeThroughputFile = "cumulative_throughput.csv"
)

// WriteViews writes the four plotting views of r as CSV files under dir,
// creating dir if needed.
func WriteViews(dir string, r *sim.RunResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating views dir: %w", err)
	}

	matrixHeader := []string{"station"}
	for g := 0; g < r.Config.Groups; g++ {
		matrixHeader = append(matrixHeader, "group_"+strconv.Itoa(g))
	}
	var matrixRows [][]string
	for station, row := range r.AssignmentMatrix() {
		rec := []string{strconv.Itoa(station)}
		for _, v := range row {
			rec = append(rec, strconv.Itoa(v))
		}
		matrixRows = append(matrixRows, rec)
	}

	var seriesRows [][]string
	for g, v := range r.ThroughputSeries() {
		seriesRows = append(seriesRows, []string{strconv.Itoa(g), formatFloat(v)})
	}

	var histRows [][]string
	for _, b := range r.TrafficHistogram() {
		histRows = append(histRows, []string{strconv.Itoa(b.Key), strconv.Itoa(b.Count)})
	}

	var cumRows [][]string
	for i, v := range r.CumulativeThroughput() {
		cumRows = append(cumRows, []string{strconv.Itoa(i + 1), formatFloat(v)})
	}

	views := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{AssignmentMatrixFile, matrixHeader, matrixRows},
		{ThroughputSeriesFile, []string{"group", "throughput"}, seriesRows},
		{TrafficHistogramFile, []string{"load", "stations"}, histRows},
		{CumulativeThroughputFile, []string{"rank", "cumulative_throughput"}, cumRows},
	}
	for _, v := range views {
		if err := writeCSV(filepath.Join(dir, v.name), v.header, v.rows); err != nil {
			return err
		}
	}
	logrus.Infof("wrote %d views to %s", len(views), dir)
	return nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
