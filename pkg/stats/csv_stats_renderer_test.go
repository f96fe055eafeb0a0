package stats

import (
	"testing"

	"github.com/lineboard/lineboard/pkg/shift"
)

func TestCsvStatsRendererImpl_RenderDailySummary(t1 *testing.T) {
	tests := []struct {
		name string
		rows []DailySummaryRow
		want string
	}{
		{
			name: "renders rows with formatted durations",
			rows: []DailySummaryRow{
				{
					Day:                  "2024-05-14",
					Shift:                shift.Shift1,
					StopsCount:           2,
					TotalDowntimeSeconds: 1800,
					TrsDowntimeSeconds:   1200,
					TotalWorkSeconds:     27000,
					AvailableSeconds:     28800,
					TrsPercentage:        95.83,
				},
				{
					Day:                  "2024-05-13",
					Shift:                shift.Shift1,
					StopsCount:           0,
					TotalDowntimeSeconds: 0,
					TrsDowntimeSeconds:   0,
					TotalWorkSeconds:     28800,
					AvailableSeconds:     28800,
					TrsPercentage:        100,
				},
			},
			want: "Day,Shift,Stops,Downtime,TRS downtime,Work time,Available,TRS %\n" +
				"2024-05-14,Team 1,2,00:30:00,00:20:00,07:30:00,08:00:00,95.83\n" +
				"2024-05-13,Team 1,0,00:00:00,00:00:00,08:00:00,08:00:00,100.00\n",
		},
		{
			name: "renders header only for empty summary",
			rows: []DailySummaryRow{},
			want: "Day,Shift,Stops,Downtime,TRS downtime,Work time,Available,TRS %\n",
		},
	}
	for _, tt := range tests {
		t1.Run(tt.name, func(t1 *testing.T) {
			t := &CsvStatsRendererImpl{}
			if got, _ := t.RenderDailySummary(tt.rows); got != tt.want {
				t1.Errorf("RenderDailySummary() = %v, want %v", got, tt.want)
			}
		})
	}
}
