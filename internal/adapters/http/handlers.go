package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"svw.info/blockpuzzle/internal/domain"
	"svw.info/blockpuzzle/internal/generator"
	"svw.info/blockpuzzle/internal/render"
	"svw.info/blockpuzzle/internal/session"
	"svw.info/blockpuzzle/internal/solver"
	"svw.info/blockpuzzle/internal/usecase"
)

type Handler struct {
	UC            *usecase.Service
	NewSession    func() *session.Session
	SearchTimeout time.Duration
}

func New(uc *usecase.Service, newSession func() *session.Session, searchTimeout time.Duration) *Handler {
	return &Handler{UC: uc, NewSession: newSession, SearchTimeout: searchTimeout}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/api/solve", h.handleSolve)
	r.Post("/api/evaluate", h.handleEvaluate)
	r.Post("/api/apply", h.handleApply)
	r.Post("/api/validate", h.handleValidate)
	r.Post("/api/hint", h.handleHint)
	r.Post("/api/generate", h.handleGenerate)
	r.Post("/api/render", h.handleRender)
	r.Post("/api/save", h.handleSave)
	r.Post("/api/load", h.handleLoad)
	r.Get("/api/list", h.handleList)
	r.Get("/ws/session", h.serveSession)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("write-response")
	}
}

// statusFor maps core errors onto HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyPiece), errors.Is(err, domain.ErrPieceTooLarge), errors.Is(err, domain.ErrDuplicatePiece),
		errors.Is(err, domain.ErrNoPieces), errors.Is(err, domain.ErrBadGrid),
		errors.Is(err, domain.ErrNegativeCounter), errors.Is(err, domain.ErrOutOfBounds):
		return http.StatusBadRequest
	case errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	case errors.Is(err, solver.ErrBudgetExceeded):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) searchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.SearchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.SearchTimeout)
}

// ---- Solve ----

type solveReq struct {
	Board         domain.BoardState `json:"board"`
	Pieces        []*domain.Piece   `json:"pieces"`
	OriginalCombo *int              `json:"originalCombo,omitempty"`
}
type solveResp struct {
	Found      bool          `json:"found"`
	Moves      []domain.Step `json:"moves,omitempty"`
	Score      int           `json:"score,omitempty"`
	DurationMs int64         `json:"durationMs,omitempty"`
	Nodes      int           `json:"nodes,omitempty"`
	Error      string        `json:"error,omitempty"`
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, solveResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	b, err := h.UC.Board(req.Board)
	if err != nil {
		writeJSON(w, statusFor(err), solveResp{Error: err.Error()})
		return
	}
	combo := b.Combo()
	if req.OriginalCombo != nil {
		combo = *req.OriginalCombo
	}
	ctx, cancel := h.searchContext(r.Context())
	defer cancel()
	head, found, st, err := h.UC.Solve(ctx, b, req.Pieces, combo)
	if err != nil {
		writeJSON(w, statusFor(err), solveResp{Error: err.Error(), DurationMs: st.Duration.Milliseconds(), Nodes: st.Nodes})
		return
	}
	resp := solveResp{Found: found, DurationMs: st.Duration.Milliseconds(), Nodes: st.Nodes}
	if found {
		resp.Moves = head.Steps()
		resp.Score = head.ProjectedScore
	}
	writeJSON(w, http.StatusOK, resp)
}

// ---- Evaluate ----

type evaluateReq struct {
	Board domain.BoardState `json:"board"`
	Mode  string            `json:"mode,omitempty"`
}
type evaluateResp struct {
	Score int    `json:"score"`
	Mode  string `json:"mode,omitempty"`
	Error string `json:"error,omitempty"`
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, evaluateResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	b, err := h.UC.Board(req.Board)
	if err != nil {
		writeJSON(w, statusFor(err), evaluateResp{Error: err.Error()})
		return
	}
	mode := domain.ParseEvalMode(req.Mode)
	writeJSON(w, http.StatusOK, evaluateResp{Score: h.UC.Evaluate(b, mode), Mode: mode.String()})
}

// ---- Apply ----

type applyReq struct {
	Board domain.BoardState `json:"board"`
	Piece *domain.Piece     `json:"piece"`
	X     int               `json:"x"`
	Y     int               `json:"y"`
}
type applyResp struct {
	OK    bool               `json:"ok"`
	Board *domain.BoardState `json:"board,omitempty"`
	Error string             `json:"error,omitempty"`
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	var req applyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Piece == nil {
		writeJSON(w, http.StatusBadRequest, applyResp{Error: "invalid JSON or missing piece"})
		return
	}
	b, err := h.UC.Board(req.Board)
	if err != nil {
		writeJSON(w, statusFor(err), applyResp{Error: err.Error()})
		return
	}
	nb, ok := h.UC.Apply(b, req.Piece, req.X, req.Y)
	if !ok {
		writeJSON(w, http.StatusOK, applyResp{OK: false})
		return
	}
	st := nb.State()
	writeJSON(w, http.StatusOK, applyResp{OK: true, Board: &st})
}

// ---- Validate ----

type validateReq struct {
	Board  domain.BoardState `json:"board"`
	Pieces []*domain.Piece   `json:"pieces"`
}
type validateResp struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, validateResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	b, err := h.UC.Board(req.Board)
	if err == nil {
		err = h.UC.Validate(r.Context(), b, req.Pieces)
	}
	if err != nil {
		writeJSON(w, http.StatusOK, validateResp{OK: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, validateResp{OK: true})
}

// ---- Hint ----

type hintResp struct {
	Found bool         `json:"found"`
	Hint  *domain.Hint `json:"hint,omitempty"`
	Error string       `json:"error,omitempty"`
}

func (h *Handler) handleHint(w http.ResponseWriter, r *http.Request) {
	var req validateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, hintResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	b, err := h.UC.Board(req.Board)
	if err != nil {
		writeJSON(w, statusFor(err), hintResp{Error: err.Error()})
		return
	}
	ctx, cancel := h.searchContext(r.Context())
	defer cancel()
	hh, ok, err := h.UC.Hint(ctx, b, req.Pieces)
	if err != nil {
		writeJSON(w, statusFor(err), hintResp{Error: err.Error()})
		return
	}
	resp := hintResp{Found: ok}
	if ok {
		resp.Hint = &hh
	}
	writeJSON(w, http.StatusOK, resp)
}

// ---- Generate ----

type generateReq struct {
	Seed  int64 `json:"seed,omitempty"`
	Count int   `json:"count,omitempty"`
}
type generateResp struct {
	Seed   int64           `json:"seed,omitempty"`
	Pieces []*domain.Piece `json:"pieces,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, generateResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	if req.Seed == 0 {
		req.Seed = generator.NewSeed()
	}
	if req.Count == 0 {
		req.Count = 3
	}
	ps, err := h.UC.Generate(r.Context(), req.Seed, req.Count)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, generateResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, generateResp{Seed: req.Seed, Pieces: ps})
}

// ---- Render ----

type renderReq struct {
	Board     domain.BoardState  `json:"board"`
	Highlight []domain.CellCoord `json:"highlight,omitempty"`
}

func (h *Handler) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	b, err := h.UC.Board(req.Board)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(render.Board(b, req.Highlight, render.DefaultTheme) + "\n"))
}

// ---- Save / Load / List ----

type saveResp struct {
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	var p domain.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, saveResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	if p.ID == "" {
		p.ID = strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().UnixNano()
	}
	if err := h.UC.Save(r.Context(), &p); err != nil {
		writeJSON(w, statusFor(err), saveResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, saveResp{ID: p.ID})
}

type loadReq struct {
	ID string `json:"id"`
}
type loadResp struct {
	Snapshot *domain.Snapshot `json:"snapshot,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	var req loadReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, loadResp{Error: "invalid JSON or missing id"})
		return
	}
	p, err := h.UC.Load(r.Context(), req.ID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, loadResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, loadResp{Snapshot: p})
}

type listResp struct {
	Snapshots []domain.SnapshotMeta `json:"snapshots"`
	Error     string                `json:"error,omitempty"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ps, err := h.UC.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, listResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, listResp{Snapshots: ps})
}
