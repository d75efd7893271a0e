package route

import (
	"net/http"
	"time"
)

func GetHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "OK",
			"time":   time.Now().Format("2006-01-02 15:04:05"),
		})
	}
}
