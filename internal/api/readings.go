package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oredata/minetel/internal/reading"
)

// handleListReadings returns up to 1000 readings in store-default order.
func (s *Server) handleListReadings(w http.ResponseWriter, r *http.Request) {
	s.listReadings(w, r)
}

// handlePublicListReadings is the unauthenticated mirror of the reading
// list. It is identical to handleListReadings; the route simply bypasses
// the access gate.
func (s *Server) handlePublicListReadings(w http.ResponseWriter, r *http.Request) {
	s.listReadings(w, r)
}

// listReadings serves the shared list behaviour for both routes.
func (s *Server) listReadings(w http.ResponseWriter, r *http.Request) {
	readings, err := s.readings.List(r.Context(), reading.DefaultListLimit)
	if err != nil {
		s.logger.Error("failed to list readings", "error", err)
		writeInternalError(w, "failed to list readings")
		return
	}

	writeJSON(w, http.StatusOK, readings)
}

// handleFilterReadings returns readings matching a single field/value
// equality predicate.
//
// Query parameters:
//   - field: the document field to match (required)
//   - value: the raw value; coerced to float, integer, or string before
//     matching (required)
func (s *Server) handleFilterReadings(w http.ResponseWriter, r *http.Request) {
	field := r.URL.Query().Get("field")
	if field == "" {
		writeValidationError(w, "field is required")
		return
	}

	value := r.URL.Query().Get("value")
	if !r.URL.Query().Has("value") {
		writeValidationError(w, "value is required")
		return
	}

	readings, err := s.readings.Filter(r.Context(), field, value, reading.DefaultListLimit)
	if err != nil {
		s.logger.Error("failed to filter readings", "error", err, "field", field)
		writeInternalError(w, "failed to filter readings")
		return
	}

	writeJSON(w, http.StatusOK, readings)
}

// handleGetReading returns a single reading by id.
// Malformed ids are indistinguishable from unknown ids: both are 404.
func (s *Server) handleGetReading(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reading_id")

	rec, err := s.readings.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, reading.ErrReadingNotFound) {
			writeNotFound(w, "reading not found")
			return
		}
		s.logger.Error("failed to get reading", "error", err, "reading_id", id)
		writeInternalError(w, "failed to get reading")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// createReadingRequest is the create payload. A client-supplied id is
// accepted and ignored; the store assigns identifiers.
type createReadingRequest struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Value     json.RawMessage `json:"value"`
	Timestamp json.RawMessage `json:"timestamp"`
}

// handleCreateReading creates a new reading from the request body.
func (s *Server) handleCreateReading(w http.ResponseWriter, r *http.Request) {
	var req createReadingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	rec, err := req.toReading()
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	created, err := s.readings.Create(r.Context(), rec)
	if err != nil {
		if errors.Is(err, reading.ErrNoInsertID) {
			writeBadRequest(w, "failed to create reading")
			return
		}
		s.logger.Error("failed to create reading", "error", err)
		writeInternalError(w, "failed to create reading")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// toReading validates the payload and maps it to a Reading.
// All fields other than id are required; a null value is accepted and
// coerces to the empty textual variant.
func (req *createReadingRequest) toReading() (*reading.Reading, error) {
	if req.Type == "" {
		return nil, errors.New("type is required")
	}
	if len(req.Value) == 0 {
		return nil, errors.New("value is required")
	}
	if len(req.Timestamp) == 0 {
		return nil, errors.New("timestamp is required")
	}

	var value reading.Value
	if err := json.Unmarshal(req.Value, &value); err != nil {
		return nil, err
	}

	var timestamp reading.Timestamp
	if err := json.Unmarshal(req.Timestamp, &timestamp); err != nil {
		return nil, err
	}

	return &reading.Reading{
		Type:      req.Type,
		Value:     value,
		Timestamp: timestamp,
	}, nil
}
