package lookup

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dromara/carbon/v2"

	"github.com/ffajobchange/ffa-status/internal/storage"
)

//nolint:gochecknoglobals // shared lipgloss styles.
var (
	keyStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// jsonResult is the --json shape of a Result.
type jsonResult struct {
	RequestID   string         `json:"request_id"`
	CharacterID string         `json:"character_id"`
	Extended    bool           `json:"extended"`
	ElapsedMS   int64          `json:"elapsed_ms"`
	Status      map[string]any `json:"status"`
}

// PrintResult writes res as indented JSON or as sorted "key: value" lines.
func PrintResult(w io.Writer, res Result, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonResult{
			RequestID:   res.RequestID,
			CharacterID: res.CharacterID,
			Extended:    res.Extended,
			ElapsedMS:   res.Elapsed.Milliseconds(),
			Status:      res.Status,
		})
	}

	fmt.Fprintf(w, "Character %s\n", res.CharacterID)
	if len(res.Status) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  (empty status)"))
	}
	for _, k := range sortedKeys(res.Status) {
		fmt.Fprintf(w, "  %s: %s\n", keyStyle.Render(k), formatValue(res.Status[k]))
	}
	if res.Extended {
		fmt.Fprintln(w, mutedStyle.Render("  (the server was asleep; this took a while)"))
	}
	return nil
}

// PrintHistory lists lookups newest first with times relative to now.
func PrintHistory(w io.Writer, lookups []storage.Lookup, now time.Time) {
	if len(lookups) == 0 {
		fmt.Fprintln(w, "History is empty.")
		return
	}
	ref := carbon.CreateFromStdTime(now)
	for i := len(lookups) - 1; i >= 0; i-- {
		l := lookups[i]
		when := carbon.CreateFromStdTime(l.FetchedAt).DiffForHumans(ref)
		line := fmt.Sprintf("%s  %s", l.CharacterID, mutedStyle.Render(when))
		if l.Error != "" {
			line += "  " + failStyle.Render("failed: "+l.Error)
		} else if v, ok := l.Status["status"]; ok {
			line += "  " + formatValue(v)
		}
		fmt.Fprintln(w, line)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatValue prints strings bare and everything else as compact JSON.
func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
