// Package httputil holds request parsing and response helpers shared by the
// HTTP handlers.
package httputil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/MrJamesThe3rd/budget/internal/report"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// ParseDate reads a YYYY-MM-DD calendar date in local time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}

	return t, nil
}

// ParseType accepts "", "income" or "expense".
func ParseType(s string) (transaction.Type, error) {
	t := transaction.Type(s)
	if s != "" && !t.Valid() {
		return "", fmt.Errorf("invalid type %q", s)
	}

	return t, nil
}

// HistoryFilter reads period, start_date, end_date, type, q and sort from
// the query string.
func HistoryFilter(r *http.Request) (report.HistoryFilter, error) {
	q := r.URL.Query()

	period, err := report.ParsePeriod(q.Get("period"))
	if err != nil {
		return report.HistoryFilter{}, err
	}

	order, err := report.ParseSortOrder(q.Get("sort"))
	if err != nil {
		return report.HistoryFilter{}, err
	}

	kind, err := ParseType(q.Get("type"))
	if err != nil {
		return report.HistoryFilter{}, err
	}

	f := report.HistoryFilter{
		Period: period,
		Type:   kind,
		Query:  q.Get("q"),
		Sort:   order,
	}

	if s := q.Get("start_date"); s != "" {
		if f.Start, err = ParseDate(s); err != nil {
			return report.HistoryFilter{}, err
		}
	}

	if s := q.Get("end_date"); s != "" {
		if f.End, err = ParseDate(s); err != nil {
			return report.HistoryFilter{}, err
		}
	}

	if f.Start.IsZero() && f.End.IsZero() {
		return f, nil
	}

	// A date bound without an explicit period means a custom range.
	if q.Get("period") == "" {
		f.Period = report.PeriodCustom
	}

	return f, nil
}
