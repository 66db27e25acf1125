package batch

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

// WriteCSV writes one row per result to path.
func WriteCSV(path string, results []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := writeCSV(f, results); err != nil {
		return err
	}
	return f.Close()
}

func writeCSV(out io.Writer, results []Result) error {
	w := csv.NewWriter(out)

	header := []string{"index", "metric", "value", "error", "input"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		value := ""
		if r.Error == "" {
			value = fmtFloat(r.Value)
		}
		row := []string{
			strconv.Itoa(r.Index),
			r.Metric,
			value,
			r.Error,
			string(r.Input),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// fmtFloat keeps full float64 precision so results round-trip exactly.
func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
