package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/classmate-labs/debate-live-backend/internal/auth"
	"github.com/classmate-labs/debate-live-backend/internal/hub"
	"github.com/classmate-labs/debate-live-backend/internal/session"
	"github.com/classmate-labs/debate-live-backend/internal/store"
	"github.com/classmate-labs/debate-live-backend/internal/types"
)

type API struct {
	st   store.Store
	hub  *hub.Hub
	auth *auth.Service
	log  *zap.Logger
}

func New(st store.Store, h *hub.Hub, a *auth.Service, log *zap.Logger) *API {
	return &API{st: st, hub: h, auth: a, log: log.Named("httpapi")}
}

func respond(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func ok(w http.ResponseWriter, code int, data any) {
	respond(w, code, map[string]any{"success": true, "data": data})
}

func fail(w http.ResponseWriter, code int, msg string) {
	respond(w, code, map[string]any{"success": false, "message": msg})
}

func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		UserType  string `json:"userType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Email == "" || req.Password == "" {
		fail(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if req.UserType != auth.RoleTeacher && req.UserType != auth.RoleStudent {
		fail(w, http.StatusBadRequest, "userType must be TEACHER or STUDENT")
		return
	}

	existing, err := a.st.FindUserByEmail(r.Context(), req.Email)
	if err != nil {
		a.serverError(w, "find user", err)
		return
	}
	if existing != nil {
		fail(w, http.StatusBadRequest, "user with this email already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		a.serverError(w, "hash password", err)
		return
	}
	u := &store.User{
		Name:     strings.TrimSpace(req.FirstName + " " + req.LastName),
		Email:    req.Email,
		Password: hash,
		UserType: req.UserType,
	}
	if err := a.st.CreateUser(r.Context(), u); err != nil {
		a.serverError(w, "create user", err)
		return
	}

	token, err := a.auth.IssueToken(u)
	if err != nil {
		a.serverError(w, "issue token", err)
		return
	}
	ok(w, http.StatusCreated, map[string]any{"user": u, "token": token})
}

func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid body")
		return
	}

	u, err := a.st.FindUserByEmail(r.Context(), req.Email)
	if err != nil {
		a.serverError(w, "find user", err)
		return
	}
	if u == nil || !auth.CheckPassword(u.Password, req.Password) {
		fail(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := a.auth.IssueToken(u)
	if err != nil {
		a.serverError(w, "issue token", err)
		return
	}
	ok(w, http.StatusOK, map[string]any{"user": u, "token": token})
}

func (a *API) CreateDebate(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var req struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Sides       []string `json:"sides"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Name == "" {
		fail(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := validateSides(req.Sides); err != nil {
		fail(w, http.StatusBadRequest, err.Error())
		return
	}

	d := &store.Debate{
		Name:        req.Name,
		Description: req.Description,
		UserID:      id.ID,
		Sides:       req.Sides,
		Status:      store.StatusActive,
		RemoveUsers: []string{},
	}
	if err := a.st.CreateDebate(r.Context(), d); err != nil {
		a.serverError(w, "create debate", err)
		return
	}
	ok(w, http.StatusCreated, d)
}

func validateSides(sides []string) error {
	if len(sides) < 2 {
		return errors.New("at least two sides are required")
	}
	seen := make(map[string]bool, len(sides))
	for _, s := range sides {
		if s == "" {
			return errors.New("side labels must not be empty")
		}
		if seen[s] {
			return fmt.Errorf("duplicate side %q", s)
		}
		seen[s] = true
	}
	return nil
}

func (a *API) ListDebates(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	ds, err := a.st.ListDebatesByOwner(r.Context(), id.ID)
	if err != nil {
		a.serverError(w, "list debates", err)
		return
	}
	ok(w, http.StatusOK, ds)
}

func (a *API) GetDebate(w http.ResponseWriter, r *http.Request) {
	d, err := a.st.GetDebate(r.Context(), chi.URLParam(r, "id"), true)
	if errors.Is(err, store.ErrNotFound) {
		fail(w, http.StatusNotFound, "debate not found")
		return
	}
	if err != nil {
		a.serverError(w, "get debate", err)
		return
	}
	ok(w, http.StatusOK, d)
}

func (a *API) UpdateDebate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Sides       []string `json:"sides"`
		Status      string   `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid body")
		return
	}

	d, err := a.st.GetDebate(r.Context(), chi.URLParam(r, "id"), false)
	if errors.Is(err, store.ErrNotFound) {
		fail(w, http.StatusNotFound, "debate not found")
		return
	}
	if err != nil {
		a.serverError(w, "get debate", err)
		return
	}

	if req.Name != "" {
		d.Name = req.Name
	}
	if req.Description != "" {
		d.Description = req.Description
	}
	if req.Sides != nil {
		if err := validateSides(req.Sides); err != nil {
			fail(w, http.StatusBadRequest, err.Error())
			return
		}
		d.Sides = req.Sides
	}
	if req.Status != "" {
		switch req.Status {
		case store.StatusActive, store.StatusCompleted, store.StatusDraft:
			d.Status = req.Status
		default:
			fail(w, http.StatusBadRequest, "invalid status")
			return
		}
	}

	if err := a.st.UpdateDebate(r.Context(), d); err != nil {
		a.serverError(w, "update debate", err)
		return
	}
	ok(w, http.StatusOK, d)
}

func (a *API) DeleteDebate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := a.st.DeleteDebate(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(w, http.StatusNotFound, "debate not found")
			return
		}
		a.serverError(w, "delete debate", err)
		return
	}
	a.hub.Inbox() <- hub.RemoveSession{DebateID: id}
	respond(w, http.StatusOK, map[string]any{"success": true, "message": "debate deleted successfully"})
}

func (a *API) JoinDebate(w http.ResponseWriter, r *http.Request) {
	debateID := chi.URLParam(r, "id")

	var req struct {
		UserName     string `json:"userName"`
		Name         string `json:"Name"`
		Side         string `json:"side"`
		FirstThought string `json:"firstThought"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.UserName == "" || req.Side == "" {
		fail(w, http.StatusBadRequest, "userName and side are required")
		return
	}

	d, err := a.st.GetDebate(r.Context(), debateID, false)
	if errors.Is(err, store.ErrNotFound) {
		fail(w, http.StatusNotFound, "debate not found")
		return
	}
	if err != nil {
		a.serverError(w, "get debate", err)
		return
	}
	if !slices.Contains(d.Sides, req.Side) {
		fail(w, http.StatusBadRequest, "side is not one of the debate's sides")
		return
	}

	userName := fmt.Sprintf("%s%s%s%s%d",
		req.UserName,
		strings.ReplaceAll(req.Side, " ", ""),
		strings.ReplaceAll(req.Name, " ", ""),
		strings.ReplaceAll(req.FirstThought, " ", ""),
		time.Now().UnixMilli())

	existing, err := a.st.FindParticipant(r.Context(), debateID, userName)
	if err != nil {
		a.serverError(w, "find participant", err)
		return
	}
	if existing != nil {
		fail(w, http.StatusBadRequest, "username already taken in this debate")
		return
	}

	p := &store.Participant{
		DebateID:     debateID,
		UserName:     userName,
		Name:         req.Name,
		Side:         req.Side,
		FirstThought: req.FirstThought,
	}
	if err := a.st.CreateParticipant(r.Context(), p); err != nil {
		a.serverError(w, "create participant", err)
		return
	}
	ok(w, http.StatusOK, p)
}

// CreateContribution is the one-shot fallback for submitContribution.
// When the debate has a live session the write goes through its actor
// so the in-memory state and the room stay consistent.
func (a *API) CreateContribution(w http.ResponseWriter, r *http.Request) {
	debateID := chi.URLParam(r, "id")

	var req struct {
		AuthorName string `json:"authorName"`
		AuthorID   string `json:"authorId"`
		Side       string `json:"side"`
		Content    string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.AuthorName == "" || req.Side == "" || req.Content == "" {
		fail(w, http.StatusBadRequest, "missing required fields")
		return
	}

	if s := a.liveSession(debateID); s != nil {
		reply := make(chan types.ServerMessage, 1)
		s.Inbox() <- session.SubmitContribution{
			AuthorID: req.AuthorID, AuthorName: req.AuthorName,
			Side: req.Side, Content: req.Content, ReplyTo: reply,
		}
		a.ackResponse(w, <-reply)
		return
	}

	d, err := a.st.GetDebate(r.Context(), debateID, false)
	if errors.Is(err, store.ErrNotFound) {
		fail(w, http.StatusNotFound, "debate not found")
		return
	}
	if err != nil {
		a.serverError(w, "get debate", err)
		return
	}
	if !slices.Contains(d.Sides, req.Side) {
		fail(w, http.StatusBadRequest, "side is not one of the debate's sides")
		return
	}

	c := &store.Contribution{
		DebateID:   debateID,
		AuthorID:   req.AuthorID,
		AuthorName: req.AuthorName,
		Side:       req.Side,
		Content:    req.Content,
		Awards:     []string{},
	}
	if err := a.st.CreateContribution(r.Context(), c); err != nil {
		a.serverError(w, "create contribution", err)
		return
	}
	ok(w, http.StatusOK, c)
}

// React is the one-shot fallback for reactToContribution. Routed
// through the live session actor when one exists, to keep counter
// increments serialized with concurrent socket reactions.
func (a *API) React(w http.ResponseWriter, r *http.Request) {
	contributionID := chi.URLParam(r, "contributionId")

	var req struct {
		DebateID string `json:"debateId"`
		Reaction string `json:"reaction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Reaction != "like" && req.Reaction != "dislike" {
		fail(w, http.StatusBadRequest, "invalid reaction")
		return
	}

	debateID := req.DebateID
	if debateID == "" {
		c, err := a.st.GetContribution(r.Context(), contributionID)
		if errors.Is(err, store.ErrNotFound) {
			fail(w, http.StatusNotFound, "contribution not found")
			return
		}
		if err != nil {
			a.serverError(w, "get contribution", err)
			return
		}
		debateID = c.DebateID
	}

	if s := a.liveSession(debateID); s != nil {
		reply := make(chan types.ServerMessage, 1)
		s.Inbox() <- session.ReactToContribution{
			ContributionID: contributionID, Reaction: req.Reaction, ReplyTo: reply,
		}
		a.ackResponse(w, <-reply)
		return
	}

	c, err := a.st.GetContribution(r.Context(), contributionID)
	if errors.Is(err, store.ErrNotFound) {
		fail(w, http.StatusNotFound, "contribution not found")
		return
	}
	if err != nil {
		a.serverError(w, "get contribution", err)
		return
	}
	if req.Reaction == "like" {
		c.Likes++
	} else {
		c.Dislikes++
	}
	if err := a.st.UpdateContribution(r.Context(), c); err != nil {
		a.serverError(w, "update contribution", err)
		return
	}
	ok(w, http.StatusOK, c)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (a *API) liveSession(debateID string) *session.Session {
	reply := make(chan *session.Session, 1)
	a.hub.Inbox() <- hub.GetSession{DebateID: debateID, Reply: reply}
	return <-reply
}

func (a *API) ackResponse(w http.ResponseWriter, ack types.ServerMessage) {
	switch ack.Status {
	case types.StatusOK:
		ok(w, http.StatusOK, ack.Contribution)
	default:
		code := http.StatusBadRequest
		if ack.Error == store.ErrNotFound.Error() {
			code = http.StatusNotFound
		}
		fail(w, code, ack.Error)
	}
}

func (a *API) serverError(w http.ResponseWriter, op string, err error) {
	a.log.Error(op+" failed", zap.Error(err))
	fail(w, http.StatusInternalServerError, err.Error())
}
