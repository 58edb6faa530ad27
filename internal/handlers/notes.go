package handlers

import (
	"errors"
	"net/http"

	"smart_notes/internal/service"

	"github.com/gin-gonic/gin"
)

type createNoteRequest struct {
	Title   string   `json:"title" binding:"required"`
	Content string   `json:"content" binding:"required"`
	Subject string   `json:"subject,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Link    string   `json:"link,omitempty"`
}

// updateNoteRequest carries a partial update; absent fields stay as-is.
type updateNoteRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Subject *string   `json:"subject"`
	Tags    *[]string `json:"tags"`
	Link    *string   `json:"link"`
}

// updateTagsRequest replaces the tag set; an empty list clears it.
type updateTagsRequest struct {
	Tags []string `json:"tags"`
}

// @Summary      List notes
// @Description  Returns the authenticated user's notes, newest first.
// @Tags         notes
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, notes"
// @Failure      401  {object}  errorBody
// @Failure      500  {object}  errorBody
// @Router       /api/v1/notes [get]
// @Security     BearerAuth
func (h *Handler) listNotes(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, codeUnauthenticated, "not authenticated")
		return
	}

	notes, err := h.services.Notes.List(c.Request.Context(), u.ID)
	if err != nil {
		h.logAndRespondError(c, http.StatusInternalServerError, codeInternal, "failed to load notes", "notes_list_failed", err, "user_id", u.ID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(notes),
		"notes": notes,
	})
}

// @Summary      Create note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        body  body  createNoteRequest  true  "Note payload"
// @Success      201  {object}  models.Note
// @Failure      400  {object}  errorBody
// @Failure      401  {object}  errorBody
// @Failure      500  {object}  errorBody
// @Router       /api/v1/notes [post]
// @Security     BearerAuth
func (h *Handler) createNote(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, codeUnauthenticated, "not authenticated")
		return
	}

	var input createNoteRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	note, err := h.services.Notes.Create(c.Request.Context(), u.ID, service.NoteInput{
		Title:   input.Title,
		Content: input.Content,
		Subject: input.Subject,
		Tags:    input.Tags,
		Link:    input.Link,
	})
	if err != nil {
		h.logAndRespondError(c, http.StatusInternalServerError, codeInternal, "failed to create note", "note_create_failed", err, "user_id", u.ID)
		return
	}

	c.JSON(http.StatusCreated, note)
}

// @Summary      Update note
// @Description  Partial update; only provided fields change.
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "Note ID"
// @Param        body  body  updateNoteRequest  true  "Fields to change"
// @Success      200  {object}  models.Note
// @Failure      400  {object}  errorBody
// @Failure      401  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Failure      500  {object}  errorBody
// @Router       /api/v1/notes/{id} [patch]
// @Security     BearerAuth
func (h *Handler) updateNote(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, codeUnauthenticated, "not authenticated")
		return
	}

	var input updateNoteRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	note, err := h.services.Notes.Update(c.Request.Context(), u.ID, c.Param("id"), service.NotePatch{
		Title:   input.Title,
		Content: input.Content,
		Subject: input.Subject,
		Tags:    input.Tags,
		Link:    input.Link,
	})
	if err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			respondError(c, http.StatusNotFound, codeNoteNotFound, "note not found")
			return
		}
		h.logAndRespondError(c, http.StatusInternalServerError, codeInternal, "failed to update note", "note_update_failed", err, "note_id", c.Param("id"))
		return
	}

	c.JSON(http.StatusOK, note)
}

// @Summary      Update note tags
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "Note ID"
// @Param        body  body  updateTagsRequest  true  "Replacement tags"
// @Success      200  {object}  models.Note
// @Failure      400  {object}  errorBody
// @Failure      401  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Failure      500  {object}  errorBody
// @Router       /api/v1/notes/{id}/tags [patch]
// @Security     BearerAuth
func (h *Handler) updateNoteTags(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, codeUnauthenticated, "not authenticated")
		return
	}

	var input updateTagsRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	note, err := h.services.Notes.UpdateTags(c.Request.Context(), u.ID, c.Param("id"), input.Tags)
	if err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			respondError(c, http.StatusNotFound, codeNoteNotFound, "note not found")
			return
		}
		h.logAndRespondError(c, http.StatusInternalServerError, codeInternal, "failed to update tags", "note_tags_update_failed", err, "note_id", c.Param("id"))
		return
	}

	c.JSON(http.StatusOK, note)
}

// @Summary      Delete note
// @Tags         notes
// @Produce      json
// @Param        id  path  string  true  "Note ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Failure      500  {object}  errorBody
// @Router       /api/v1/notes/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteNote(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, codeUnauthenticated, "not authenticated")
		return
	}

	if err := h.services.Notes.Delete(c.Request.Context(), u.ID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			respondError(c, http.StatusNotFound, codeNoteNotFound, "note not found")
			return
		}
		h.logAndRespondError(c, http.StatusInternalServerError, codeInternal, "failed to delete note", "note_delete_failed", err, "note_id", c.Param("id"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "note deleted"})
}
