package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/exp/slices"
)

// Summary is one aggregated benchmark row, covering a single run of the
// three engines over the same workload.
type Summary struct {
	Depth     int
	Threads   int
	Batch     int
	Ops       int
	AvgLive   time.Duration
	AvgAngela time.Duration
	AvgSerial time.Duration
}

// summaryHeader is the schema of the summary CSV.
var summaryHeader = []string{"depth", "threads", "batch", "ops", "avg_live", "avg_angela", "avg_serial"}

// Flatten merges per-worker response time lists into a single list.
func Flatten(perWorker [][]time.Duration) []time.Duration {
	total := 0
	for _, times := range perWorker {
		total += len(times)
	}
	flat := make([]time.Duration, 0, total)
	for _, times := range perWorker {
		flat = append(flat, times...)
	}
	return flat
}

// Average returns the mean of the given durations, 0 for an empty input.
func Average(times []time.Duration) time.Duration {
	if len(times) == 0 {
		return 0
	}
	var sum time.Duration
	for _, t := range times {
		sum += t
	}
	return sum / time.Duration(len(times))
}

// Percentile returns the p-quantile (p in [0;1]) of the given durations,
// 0 for an empty input. The input is not modified.
func Percentile(times []time.Duration, p float64) time.Duration {
	if len(times) == 0 {
		return 0
	}
	sorted := slices.Clone(times)
	slices.Sort(sorted)
	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// WriteLatencies dumps raw per-operation response times, one microsecond
// value per row.
func WriteLatencies(out io.Writer, times []time.Duration) error {
	writer := csv.NewWriter(out)
	for _, t := range times {
		if err := writer.Write([]string{fmt.Sprintf("%d", t.Microseconds())}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteLatencyFile dumps raw response times into the named file.
func WriteLatencyFile(path string, times []time.Duration) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteLatencies(file, times); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteSummaries writes the summary CSV, header first, average columns in
// microseconds.
func WriteSummaries(out io.Writer, summaries []Summary) error {
	writer := csv.NewWriter(out)
	if err := writer.Write(summaryHeader); err != nil {
		return err
	}
	for _, s := range summaries {
		row := []string{
			fmt.Sprintf("%d", s.Depth),
			fmt.Sprintf("%d", s.Threads),
			fmt.Sprintf("%d", s.Batch),
			fmt.Sprintf("%d", s.Ops),
			fmt.Sprintf("%d", s.AvgLive.Microseconds()),
			fmt.Sprintf("%d", s.AvgAngela.Microseconds()),
			fmt.Sprintf("%d", s.AvgSerial.Microseconds()),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteSummaryFile writes the summary CSV into the named file.
func WriteSummaryFile(path string, summaries []Summary) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSummaries(file, summaries); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
