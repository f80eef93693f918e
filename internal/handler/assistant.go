package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/ekaksh/internal/service"
	"github.com/msomdec/ekaksh/internal/view"
	datastar "github.com/starfederation/datastar-go/datastar"
)

// AssistantHandler serves the assistant page and answers queries.
type AssistantHandler struct {
	router *service.AssistantRouter
}

// NewAssistantHandler creates a new AssistantHandler.
func NewAssistantHandler(router *service.AssistantRouter) *AssistantHandler {
	return &AssistantHandler{router: router}
}

// ShowAssistant renders the query page for the logged-in user.
// GET /assistant
func (h *AssistantHandler) ShowAssistant(w http.ResponseWriter, r *http.Request) {
	username, _ := SessionFromContext(r.Context()).CurrentUser()
	renderPage(w, r, http.StatusOK, view.AssistantPage(username, FlashFromContext(r.Context())))
}

// HandleQuery answers a datastar query and patches the result into #answer.
// POST /assistant/query
func (h *AssistantHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var signals queryRequest
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	answer, err := h.router.Route(r.Context(), signals.Query)

	sse := datastar.NewSSE(w, r)
	fragment := view.AnswerFragment(string(service.Classify(signals.Query)), answer)
	if err != nil {
		_, msg := errorResponse(err, false)
		fragment = view.AnswerError(msg)
	}

	if err := sse.PatchElementTempl(fragment, datastar.WithSelectorID(view.AnswerID)); err != nil {
		slog.Error("patch answer", "error", err)
	}
}

// HandleAPIQuery answers a JSON query.
// POST /api/assistant/query
// Request:  {"query":"..."}
// Response: {"kind":"code|math","answer":"..."}
func (h *AssistantHandler) HandleAPIQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	answer, err := h.router.Route(r.Context(), req.Query)
	if err != nil {
		status, msg := errorResponse(err, true)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Kind:   service.Classify(req.Query),
		Answer: answer,
	})
}
