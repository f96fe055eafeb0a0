package stats

import (
	"bytes"
	"encoding/csv"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// StatsRenderer renders a daily summary into an alternative representation.
type StatsRenderer interface {
	RenderDailySummary(rows []DailySummaryRow) (string, error)
}

type CsvStatsRendererImpl struct {
}

func NewCsvStatsRenderer() *CsvStatsRendererImpl {
	return &CsvStatsRendererImpl{}
}

func (t *CsvStatsRendererImpl) RenderDailySummary(rows []DailySummaryRow) (string, error) {
	data := make([][]string, 0, len(rows)+1)
	data = append(data, []string{"Day", "Shift", "Stops", "Downtime", "TRS downtime", "Work time", "Available", "TRS %"})

	for _, row := range rows {
		data = append(data, []string{
			row.Day,
			row.Shift.Label(),
			strconv.Itoa(row.StopsCount),
			formatSeconds(row.TotalDowntimeSeconds),
			formatSeconds(row.TrsDowntimeSeconds),
			formatSeconds(row.TotalWorkSeconds),
			formatSeconds(row.AvailableSeconds),
			strconv.FormatFloat(row.TrsPercentage, 'f', 2, 64),
		})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func formatSeconds(totalSeconds int) string {
	hours := strconv.Itoa(totalSeconds / 3600)
	if len(hours) == 1 {
		hours = "0" + hours
	}
	minutes := strconv.Itoa(totalSeconds / 60 % 60)
	if len(minutes) == 1 {
		minutes = "0" + minutes
	}
	seconds := strconv.Itoa(totalSeconds % 60)
	if len(seconds) == 1 {
		seconds = "0" + seconds
	}
	return hours + ":" + minutes + ":" + seconds
}
