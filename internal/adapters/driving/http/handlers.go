package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/notefold/notefold-core/internal/core/domain"
	"github.com/notefold/notefold-core/internal/core/ports/driving"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the API (checks database and cache connections)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "A backing service is unreachable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "cache unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Note endpoints

// handleCreateNote godoc
// @Summary      Create a note
// @Description  Create a new note for the authenticated user
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.CreateNoteRequest  true  "Note fields"
// @Success      201      {object}  domain.Note
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Router       /notes [post]
func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req driving.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note, err := s.noteService.Create(r.Context(), authCtx.UserID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// handleListNotes godoc
// @Summary      List notes
// @Description  List the authenticated user's notes, newest first
// @Tags         Notes
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size (default 50, max 200)"
// @Param        offset  query     int  false  "Page offset"
// @Success      200     {array}   domain.Note
// @Router       /notes [get]
func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit, offset := pagination(r)

	notes, err := s.noteService.List(r.Context(), authCtx.UserID, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if notes == nil {
		notes = []*domain.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

// handleGetNote godoc
// @Summary      Get a note
// @Description  Retrieve a note the user may read
// @Tags         Notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Note ID"
// @Success      200  {object}  domain.Note
// @Failure      403  {object}  ErrorResponse  "Not readable by this user"
// @Failure      404  {object}  ErrorResponse  "Note not found"
// @Router       /notes/{id} [get]
func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	note, err := s.noteService.Get(r.Context(), authCtx.UserID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// handleUpdateNote godoc
// @Summary      Update a note
// @Description  Apply a partial update to a note the user owns
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Note ID"
// @Param        request  body      driving.UpdateNoteRequest  true  "Fields to change"
// @Success      200      {object}  domain.Note
// @Failure      403      {object}  ErrorResponse  "Not the owner"
// @Failure      404      {object}  ErrorResponse  "Note not found"
// @Router       /notes/{id} [patch]
func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req driving.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note, err := s.noteService.Update(r.Context(), authCtx.UserID, r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// handleDeleteNote godoc
// @Summary      Delete a note
// @Description  Delete a note the user owns. Citations of the note in the user's compiled notes are removed; the compiled notes survive.
// @Tags         Notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Note ID"
// @Success      200  {object}  StatusResponse
// @Failure      403  {object}  ErrorResponse  "Not the owner"
// @Failure      404  {object}  ErrorResponse  "Note not found"
// @Router       /notes/{id} [delete]
func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := s.noteService.Delete(r.Context(), authCtx.UserID, r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// One-shot generation endpoints

// handleGenerateFromTranscript godoc
// @Summary      Generate a note from a transcript
// @Description  Turn a complete transcript into a sectioned note draft. The draft is not persisted; save it through POST /notes.
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.GenerateFromTranscriptRequest  true  "Transcript"
// @Success      200      {object}  driving.GeneratedNote
// @Failure      400      {object}  ErrorResponse  "Empty transcript"
// @Failure      502      {object}  ErrorResponse  "Generation failed or was malformed"
// @Failure      503      {object}  ErrorResponse  "No generator configured"
// @Router       /notes/generate-from-transcript [post]
func (s *Server) handleGenerateFromTranscript(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req driving.GenerateFromTranscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	draft, err := s.generateService.FromTranscript(r.Context(), authCtx.UserID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// handleGenerateMetadata godoc
// @Summary      Suggest note metadata
// @Description  Derive a title and tags from existing note content
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.SuggestMetadataRequest  true  "Note content"
// @Success      200      {object}  driving.NoteMetadata
// @Failure      400      {object}  ErrorResponse  "Empty content"
// @Failure      502      {object}  ErrorResponse  "Generation failed or was malformed"
// @Failure      503      {object}  ErrorResponse  "No generator configured"
// @Router       /notes/generate-metadata [post]
func (s *Server) handleGenerateMetadata(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req driving.SuggestMetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	metadata, err := s.generateService.SuggestMetadata(r.Context(), authCtx.UserID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metadata)
}

// Live note endpoints

// ConsolidateHTTPRequest is the wire form of a live consolidation call
type ConsolidateHTTPRequest struct {
	SessionID    string                 `json:"session_id"`
	Chunk        domain.TranscriptChunk `json:"chunk"`
	Sections     []domain.Section       `json:"sections"`
	MeetingTitle string                 `json:"meeting_title,omitempty"`
}

// liveSessionTTL bounds how long one consolidation call may hold its
// session slot before the guard expires on its own
const liveSessionTTL = 60 * time.Second

// handleConsolidate godoc
// @Summary      Consolidate a transcript chunk
// @Description  Fold one transcript chunk into the session's sections. One call per session may be in flight; overlapping calls get 409.
// @Tags         Live
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      ConsolidateHTTPRequest  true  "Chunk and current sections"
// @Success      200      {object}  driving.ConsolidateResult
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      409      {object}  ErrorResponse  "A consolidation for this session is already running"
// @Failure      503      {object}  ErrorResponse  "No live generator configured"
// @Router       /live/consolidate [post]
func (s *Server) handleConsolidate(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ConsolidateHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	// Single-flight guard per session. Without Redis there is no guard and
	// callers are trusted to serialize their own chunk submission.
	if s.sessionLock != nil {
		lockName := "live:" + authCtx.UserID + ":" + req.SessionID
		acquired, err := s.sessionLock.Acquire(r.Context(), lockName, liveSessionTTL)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !acquired {
			writeError(w, http.StatusConflict, "consolidation already in flight for this session")
			return
		}
		defer func() { _ = s.sessionLock.Release(r.Context(), lockName) }()
	}

	result, err := s.liveService.Consolidate(r.Context(), authCtx.UserID, driving.ConsolidateRequest{
		Chunk:        req.Chunk,
		Sections:     req.Sections,
		MeetingTitle: req.MeetingTitle,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CleanupHTTPRequest is the wire form of a cleanup call
type CleanupHTTPRequest struct {
	Sections []domain.Section `json:"sections"`
}

// CleanupHTTPResponse carries the cleaned sections
type CleanupHTTPResponse struct {
	Sections []domain.Section `json:"sections"`
}

// handleCleanup godoc
// @Summary      Clean up finished sections
// @Description  Run a consolidation pass over a finished session's sections. Always succeeds; on generator trouble the input sections come back unchanged.
// @Tags         Live
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CleanupHTTPRequest  true  "Sections to clean"
// @Success      200      {object}  CleanupHTTPResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Router       /live/cleanup [post]
func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CleanupHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sections, err := s.cleanupService.Cleanup(r.Context(), authCtx.UserID, req.Sections)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if sections == nil {
		sections = []domain.Section{}
	}
	writeJSON(w, http.StatusOK, CleanupHTTPResponse{Sections: sections})
}

// Compiled note endpoints

// CompileHTTPRequest names the source notes for a compile
type CompileHTTPRequest struct {
	NoteIDs []string `json:"note_ids"`
}

// handleCompile godoc
// @Summary      Compile notes
// @Description  Combine two or more source notes into one compiled note with per-section citations
// @Tags         Compiled
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CompileHTTPRequest  true  "Source note ids, order defines citation numbers"
// @Success      201      {object}  domain.CompiledNote
// @Failure      400      {object}  ErrorResponse  "Fewer than two sources"
// @Failure      403      {object}  ErrorResponse  "A source is not readable by this user"
// @Failure      502      {object}  ErrorResponse  "Generation failed or was malformed"
// @Router       /compiled [post]
func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CompileHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	compiled, err := s.compileService.Compile(r.Context(), authCtx.UserID, req.NoteIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, compiled)
}

// handleListCompiled godoc
// @Summary      List compiled notes
// @Description  List the authenticated user's compiled notes, newest first
// @Tags         Compiled
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size (default 50, max 200)"
// @Param        offset  query     int  false  "Page offset"
// @Success      200     {array}   domain.CompiledNote
// @Router       /compiled [get]
func (s *Server) handleListCompiled(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit, offset := pagination(r)

	compiled, err := s.compileService.List(r.Context(), authCtx.UserID, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if compiled == nil {
		compiled = []*domain.CompiledNote{}
	}
	writeJSON(w, http.StatusOK, compiled)
}

// handleGetCompiled godoc
// @Summary      Get a compiled note
// @Tags         Compiled
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Compiled note ID"
// @Success      200  {object}  domain.CompiledNote
// @Failure      403  {object}  ErrorResponse  "Not the owner"
// @Failure      404  {object}  ErrorResponse  "Compiled note not found"
// @Router       /compiled/{id} [get]
func (s *Server) handleGetCompiled(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	compiled, err := s.compileService.Get(r.Context(), authCtx.UserID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, compiled)
}

// handleGetCitations godoc
// @Summary      Resolve citations
// @Description  Resolve the compiled note's per-section citations. Citations of deleted sources are omitted.
// @Tags         Compiled
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Compiled note ID"
// @Success      200  {array}   driving.SectionWithCitations
// @Failure      404  {object}  ErrorResponse  "Compiled note not found"
// @Router       /compiled/{id}/citations [get]
func (s *Server) handleGetCitations(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	sections, err := s.compileService.Citations(r.Context(), authCtx.UserID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

// handleDeleteCompiled godoc
// @Summary      Delete a compiled note
// @Tags         Compiled
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Compiled note ID"
// @Success      200  {object}  StatusResponse
// @Failure      403  {object}  ErrorResponse  "Not the owner"
// @Failure      404  {object}  ErrorResponse  "Compiled note not found"
// @Router       /compiled/{id} [delete]
func (s *Server) handleDeleteCompiled(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := s.compileService.Delete(r.Context(), authCtx.UserID, r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Friend endpoints

// FriendRequestHTTPRequest names the user to befriend
type FriendRequestHTTPRequest struct {
	FriendID string `json:"friend_id"`
}

// handleFriendRequest godoc
// @Summary      Send a friend request
// @Tags         Friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      FriendRequestHTTPRequest  true  "Addressee"
// @Success      201      {object}  domain.Friendship
// @Failure      404      {object}  ErrorResponse  "Unknown user"
// @Failure      409      {object}  ErrorResponse  "A request or friendship already exists"
// @Router       /friends/requests [post]
func (s *Server) handleFriendRequest(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req FriendRequestHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	friendship, err := s.friendService.Request(r.Context(), authCtx.UserID, req.FriendID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, friendship)
}

// handleFriendAccept godoc
// @Summary      Accept a friend request
// @Tags         Friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Friendship ID"
// @Success      200  {object}  domain.Friendship
// @Failure      403  {object}  ErrorResponse  "Not the addressee"
// @Failure      404  {object}  ErrorResponse  "Unknown request"
// @Router       /friends/requests/{id}/accept [post]
func (s *Server) handleFriendAccept(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	friendship, err := s.friendService.Accept(r.Context(), authCtx.UserID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, friendship)
}

// handleFriendReject godoc
// @Summary      Reject a friend request
// @Tags         Friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Friendship ID"
// @Success      200  {object}  StatusResponse
// @Failure      403  {object}  ErrorResponse  "Not the addressee"
// @Failure      404  {object}  ErrorResponse  "Unknown request"
// @Router       /friends/requests/{id}/reject [post]
func (s *Server) handleFriendReject(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := s.friendService.Reject(r.Context(), authCtx.UserID, r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

// handleListFriends godoc
// @Summary      List friendships
// @Tags         Friends
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status (pending, accepted, rejected)"
// @Success      200     {array}   domain.Friendship
// @Router       /friends [get]
func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	status := domain.FriendshipStatus(r.URL.Query().Get("status"))

	friendships, err := s.friendService.List(r.Context(), authCtx.UserID, status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if friendships == nil {
		friendships = []*domain.Friendship{}
	}
	writeJSON(w, http.StatusOK, friendships)
}

// handleFriendRemove godoc
// @Summary      Remove a friend
// @Description  End the friendship and remove the former friend's note ids from the caller's compiled note citations
// @Tags         Friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Friend user ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse  "No friendship with this user"
// @Router       /friends/{id} [delete]
func (s *Server) handleFriendRemove(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := s.friendService.Remove(r.Context(), authCtx.UserID, r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// User endpoints

// handleGetMe godoc
// @Summary      Get own profile
// @Description  Return the authenticated user's profile. Profiles are provisioned from token claims on the first authenticated request.
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Profile
// @Router       /users/me [get]
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := s.profileService.Get(r.Context(), authCtx.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// handleUpdateMe godoc
// @Summary      Update own profile
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.UpdateProfileRequest  true  "Fields to change"
// @Success      200      {object}  domain.Profile
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      409      {object}  ErrorResponse  "Username already taken"
// @Router       /users/me [patch]
func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req driving.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := s.profileService.Update(r.Context(), authCtx.UserID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// handleGetUserByUsername godoc
// @Summary      Look up a user by username
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  domain.Profile
// @Failure      404       {object}  ErrorResponse  "Unknown username"
// @Router       /users/{username} [get]
func (s *Server) handleGetUserByUsername(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := s.profileService.GetByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Helpers

func pagination(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps domain errors to HTTP status codes
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrInsufficientSources):
		writeError(w, http.StatusBadRequest, "at least 2 source notes required")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrSessionBusy):
		writeError(w, http.StatusConflict, "session busy")
	case errors.Is(err, domain.ErrServiceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "no text generator configured")
	case errors.Is(err, domain.ErrGenerationFailed), errors.Is(err, domain.ErrMalformedGeneration):
		writeError(w, http.StatusBadGateway, "text generation failed")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
