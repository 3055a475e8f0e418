package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ExportFilename is the download name for a history export.
const ExportFilename = "risk_report.csv"

// WriteCSV serializes records as delimited text, oldest first. Columns:
// a tick index, the two group reading triples, then one score column
// per bench id in catalog order. A bench with no recorded score at a
// tick produces an empty field.
func WriteCSV(w io.Writer, benchIDs []string, records []Record) error {
	cw := csv.NewWriter(w)

	header := append([]string{"tick", "rain1", "vib1", "blast1", "rain2", "vib2", "blast2"}, benchIDs...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i, rec := range records {
		row := []string{
			strconv.Itoa(i),
			formatFloat(rec.Group1.Rainfall),
			formatFloat(rec.Group1.Vibration),
			formatFloat(rec.Group1.BlastEvents),
			formatFloat(rec.Group2.Rainfall),
			formatFloat(rec.Group2.Vibration),
			formatFloat(rec.Group2.BlastEvents),
		}
		for _, id := range benchIDs {
			score, ok := rec.Scores[id]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, formatFloat(score))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// formatFloat renders the shortest representation that round-trips.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
