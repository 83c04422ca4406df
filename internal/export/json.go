package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/neuroshield/eye/internal/store"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Days       []jsonDay   `json:"days"`
	Breaks     []jsonBreak `json:"breaks"`
}

type jsonDay struct {
	Date          string `json:"date"`
	ScreenMinutes int    `json:"screen_minutes"`
	BreaksDone    int    `json:"breaks_done"`
	BreaksMissed  int    `json:"breaks_missed"`
	PostureAlerts int    `json:"posture_alerts"`
}

type jsonBreak struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time,omitempty"`
	Completed bool   `json:"completed"`
}

// ToJSON writes daily stats and the break log as a single JSON document.
func ToJSON(stats []store.DailyStat, breaks []store.BreakEvent, path string) error {
	doc := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, st := range stats {
		doc.Days = append(doc.Days, jsonDay{
			Date:          st.Date,
			ScreenMinutes: st.ScreenMinutes,
			BreaksDone:    st.BreaksDone,
			BreaksMissed:  st.BreaksMissed,
			PostureAlerts: st.PostureAlerts,
		})
	}

	for _, b := range breaks {
		endStr := ""
		if b.EndTime != nil {
			endStr = b.EndTime.Local().Format(time.RFC3339)
		}
		doc.Breaks = append(doc.Breaks, jsonBreak{
			ID:        b.ID,
			Type:      b.BreakType,
			StartTime: b.StartTime.Local().Format(time.RFC3339),
			EndTime:   endStr,
			Completed: b.EndTime != nil && b.Completed,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
