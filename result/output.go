package result

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// jsonLink is the machine-readable form of a LinkStatus.
type jsonLink struct {
	URL        string `json:"url"`
	Valid      bool   `json:"valid"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
	ErrorType  string `json:"error_type,omitempty"`
}

// WriteJSON writes every probed link as a formatted JSON array to the writer.
// Valid links come first, then invalid ones.
func WriteJSON(w io.Writer, v Validation) error {
	links := make([]jsonLink, 0, v.Len())
	for _, s := range append(append([]LinkStatus{}, v.Valid...), v.Invalid...) {
		links = append(links, jsonLink{
			URL:        s.URL,
			Valid:      s.Valid(),
			StatusCode: s.StatusCode,
			Error:      s.Err,
			ErrorType:  string(s.Category),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(links); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}

// WriteCSV writes every probed link as CSV to the writer.
// Always includes a header row, even if no links were probed.
// Column order: url, valid, status_code, error, error_type
func WriteCSV(w io.Writer, v Validation) error {
	cw := csv.NewWriter(w)

	header := []string{"url", "valid", "status_code", "error", "error_type"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, s := range append(append([]LinkStatus{}, v.Valid...), v.Invalid...) {
		record := []string{
			s.URL,
			strconv.FormatBool(s.Valid()),
			statusCodeStr(s.StatusCode),
			s.Err,
			string(s.Category),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record for %s: %w", s.URL, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}

// statusCodeStr converts an HTTP status code to a string.
// Returns empty string for 0 (no HTTP status).
func statusCodeStr(code int) string {
	if code == 0 {
		return ""
	}
	return strconv.Itoa(code)
}
