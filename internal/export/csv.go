package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/neuroshield/eye/internal/store"
)

// ToCSV writes daily stats followed by the break log to a single CSV
// file. The two record kinds share a file; the first column names the
// kind so spreadsheet filters can split them.
func ToCSV(stats []store.DailyStat, breaks []store.BreakEvent, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Kind", "Date", "Screen Minutes", "Breaks Done", "Breaks Missed", "Posture Alerts"}); err != nil {
		return err
	}
	for _, st := range stats {
		row := []string{
			"daily",
			st.Date,
			fmt.Sprintf("%d", st.ScreenMinutes),
			fmt.Sprintf("%d", st.BreaksDone),
			fmt.Sprintf("%d", st.BreaksMissed),
			fmt.Sprintf("%d", st.PostureAlerts),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	if err := w.Write([]string{"Kind", "ID", "Type", "Start", "End", "Completed"}); err != nil {
		return err
	}
	for _, b := range breaks {
		endStr := ""
		if b.EndTime != nil {
			endStr = b.EndTime.Local().Format(time.RFC3339)
		}
		row := []string{
			"break",
			fmt.Sprintf("%d", b.ID),
			b.BreakType,
			b.StartTime.Local().Format(time.RFC3339),
			endStr,
			fmt.Sprintf("%t", b.EndTime != nil && b.Completed),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
