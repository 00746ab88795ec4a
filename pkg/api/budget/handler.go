package budget

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"lifepath_planner/pkg/core/agent"
	"lifepath_planner/pkg/core/patch"
	"lifepath_planner/pkg/core/pipeline"
	"lifepath_planner/pkg/core/questions"
	"lifepath_planner/pkg/core/store"
)

var orchestrator *pipeline.Orchestrator
var agentManager *agent.Manager
var phraser *questions.Phraser

// InitHandler wires the budget endpoints with their dependencies.
func InitHandler(mgr *agent.Manager, repo *store.SessionRepo) {
	agentManager = mgr
	orchestrator = pipeline.NewOrchestrator(mgr, repo)
	phraser = questions.NewPhraser()
}

// maxUploadBytes caps budget export uploads at 10 MB.
const maxUploadBytes = 10 << 20

type uploadResponse struct {
	SessionID string         `json:"session_id"`
	Session   *store.Session `json:"session"`
}

type answersRequest struct {
	SessionID string                 `json:"session_id"`
	Answers   map[string]interface{} `json:"answers"`
}

type answersErrorResponse struct {
	Errors []patch.FieldError `json:"errors"`
}

// HandleUpload accepts a multipart budget export, runs the interpretation
// pipeline, and returns the new session.
func HandleUpload(w http.ResponseWriter, r *http.Request) {
	cors(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart upload", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing 'file' field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		http.Error(w, "Failed to read upload", http.StatusBadRequest)
		return
	}

	sessionID := uuid.NewString()
	session, err := orchestrator.Interpret(r.Context(), data, header.Filename, sessionID)
	if err != nil {
		// Only undecodable input reaches here; pipeline-internal problems
		// degrade to notes and warnings instead.
		http.Error(w, fmt.Sprintf("Could not interpret upload: %v", err), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, uploadResponse{SessionID: sessionID, Session: session})
}

// HandleModel returns the persisted session for ?session=<id>.
func HandleModel(w http.ResponseWriter, r *http.Request) {
	cors(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	session, ok := loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, session)
}

// HandleQuestions returns the clarification questions for a session's model.
// Question text may be rephrased by the question-generation provider; field
// IDs are always the deterministic ones.
func HandleQuestions(w http.ResponseWriter, r *http.Request) {
	cors(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	session, ok := loadSession(w, r)
	if !ok {
		return
	}

	qs := questions.Generate(session.Model)
	if _, ok := agentManager.ProviderForStage(agent.StageQuestions); ok {
		qs = phraser.Rephrase(r.Context(), qs)
	}
	writeJSON(w, map[string]interface{}{"questions": qs})
}

// HandleAnswers validates a clarification payload and applies it onto the
// persisted model. Validation errors return 400 with the full batch.
func HandleAnswers(w http.ResponseWriter, r *http.Request) {
	cors(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	var req answersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" || len(req.Answers) == 0 {
		http.Error(w, "session_id and answers are required", http.StatusBadRequest)
		return
	}

	session, fieldErrs, err := orchestrator.ApplyAnswers(r.Context(), req.SessionID, req.Answers)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if len(fieldErrs) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(answersErrorResponse{Errors: fieldErrs})
		return
	}

	writeJSON(w, session)
}

// HandleReEnrich re-runs the enrichment pass over a persisted session.
func HandleReEnrich(w http.ResponseWriter, r *http.Request) {
	cors(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "Missing 'session' query parameter", http.StatusBadRequest)
		return
	}

	session, err := orchestrator.ReEnrich(r.Context(), sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, session)
}

func loadSession(w http.ResponseWriter, r *http.Request) (*store.Session, bool) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "Missing 'session' query parameter", http.StatusBadRequest)
		return nil, false
	}
	session, err := orchestrator.LoadSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	return session, true
}

func cors(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
