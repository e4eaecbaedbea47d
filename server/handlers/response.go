package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes body before committing status, so an unencodable body
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, logger *logrus.Logger, status int, body interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		logger.WithError(err).Error("Error encoding response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error"}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, logger *logrus.Logger, status int, msg string) {
	writeJSON(w, logger, status, errorResponse{Error: msg})
}
