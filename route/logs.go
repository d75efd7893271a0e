package route

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"tdrs/internal/collector"
	"tdrs/internal/eventlog"
	"tdrs/internal/middleware"
)

const maxEventBytes = 64 << 10

var errNotAnObject = errors.New("body must be a JSON object")

// PostLog records one event sent by the event logger.
func PostLog(rec *collector.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := middleware.GetLogger(r)

		event, err := decodeEvent(http.MaxBytesReader(w, r.Body, maxEventBytes))
		if err != nil {
			log.Warn("rejected event", "error", err)
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		entry := collector.Entry{
			ReceivedAt: time.Now().UTC(),
			RequestID:  middleware.GetRequestID(r),
			Event:      event,
		}
		if err := rec.Record(entry); err != nil {
			log.Error("failed to record event", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to record event")
			return
		}

		log.Info("event recorded", "type", event["type"], "message", event["message"], "username", event["username"])
		writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
	}
}

// GetLogHistory returns recorded events as a JSON array, oldest first.
func GetLogHistory(rec *collector.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := middleware.GetLogger(r)

		limit := 1000
		if l := r.URL.Query().Get("limit"); l != "" {
			if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
				limit = parsed
			}
		}

		entries, err := rec.ReadHistory(limit)
		if err != nil {
			log.Error("failed to read event history", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to read logs")
			return
		}

		writeJSON(w, http.StatusOK, entries)
	}
}

func decodeEvent(body io.Reader) (map[string]any, error) {
	var event map[string]any
	if err := json.NewDecoder(body).Decode(&event); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if event == nil {
		return nil, errNotAnObject
	}

	if msg, ok := event["message"].(string); !ok || msg == "" {
		return nil, errors.New("message is required")
	}
	sev, _ := event["type"].(string)
	if !eventlog.Severity(sev).Valid() {
		return nil, fmt.Errorf("type must be %q or %q", eventlog.SeverityError, eventlog.SeverityAlert)
	}
	return event, nil
}
