package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sandevgo/atlas/internal/extract"
	"github.com/sandevgo/atlas/internal/service/chat"
	"github.com/sandevgo/atlas/internal/session"
	"github.com/sandevgo/atlas/pkg/log"
)

// defaultSessionID keeps clients that never fetched /session working.
const defaultSessionID = "default"

type Handler struct {
	svc      *chat.Service
	sessions *session.Manager
}

func NewHandler(svc *chat.Service, sessions *session.Manager) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type chatResponse struct {
	Response  string             `json:"response"`
	SessionID string             `json:"sessionId"`
	Offline   bool               `json:"offline"`
	Canned    bool               `json:"canned,omitempty"`
	Document  *chat.DocumentInfo `json:"document,omitempty"`
}

// Chat handles a plain text message.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	reply := h.svc.Respond(r.Context(), sessionID, req.Message)
	writeJSON(w, http.StatusOK, chatResponse{
		Response:  reply.Text,
		SessionID: sessionID,
		Offline:   reply.Offline,
		Canned:    reply.Canned,
	})
}

type documentRequest struct {
	SessionID string `json:"sessionId"`
	FileName  string `json:"fileName"`
	MimeType  string `json:"mimeType"`
	Data      string `json:"data"`
	Message   string `json:"message"`
}

// Document ingests an uploaded document (base64 payload) and returns the
// initial analysis.
func (h *Handler) Document(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FileName == "" || req.Data == "" {
		writeError(w, http.StatusBadRequest, "fileName and data are required")
		return
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	content, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "data is not valid base64")
		return
	}

	reply, info, err := h.svc.IngestDocument(r.Context(), sessionID, req.FileName, req.MimeType, content, req.Message)
	switch {
	case errors.Is(err, extract.ErrUnsupportedType):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
		return
	case err != nil:
		log.FromCtx(r.Context()).Error().Err(err).Msg("document ingestion failed")
		writeError(w, http.StatusInternalServerError, "failed to process document")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:  reply.Text,
		SessionID: sessionID,
		Offline:   reply.Offline,
		Document:  info,
	})
}

type continueRequest struct {
	SessionID string `json:"sessionId"`
	FileName  string `json:"fileName"`
}

// DocumentContinue analyzes the next chunk of a parked document.
func (h *Handler) DocumentContinue(w http.ResponseWriter, r *http.Request) {
	var req continueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FileName == "" {
		writeError(w, http.StatusBadRequest, "fileName is required")
		return
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	reply, info, err := h.svc.ContinueDocument(r.Context(), sessionID, req.FileName)
	switch {
	case errors.Is(err, session.ErrNoDocument):
		writeError(w, http.StatusNotFound, "no such document in session")
		return
	case errors.Is(err, session.ErrDocumentComplete):
		writeError(w, http.StatusConflict, "document fully processed")
		return
	case err != nil:
		log.FromCtx(r.Context()).Error().Err(err).Msg("document continuation failed")
		writeError(w, http.StatusInternalServerError, "failed to process document")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:  reply.Text,
		SessionID: sessionID,
		Offline:   reply.Offline,
		Document:  info,
	})
}

// Session mints a fresh session identifier.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": h.sessions.NewSessionID()})
}

// APIStatus probes the generation backend.
func (h *Handler) APIStatus(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Status(r.Context()); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "offline",
			"message": "O backend de geração está indisponível",
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "online",
		"message": "O backend de geração está funcionando corretamente",
	})
}
