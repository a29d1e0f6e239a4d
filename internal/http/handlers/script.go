package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/edugen-backend/internal/http/response"
	apperr "github.com/yungbote/edugen-backend/internal/pkg/errors"
	"github.com/yungbote/edugen-backend/internal/services"
)

type ScriptHandler struct {
	lessons services.LessonService
	scripts services.ScriptService
}

func NewScriptHandler(lessons services.LessonService, scripts services.ScriptService) *ScriptHandler {
	return &ScriptHandler{lessons: lessons, scripts: scripts}
}

type scriptSummary struct {
	ID        string    `json:"id"`
	ScriptKey string    `json:"script_key"`
	Title     string    `json:"title"`
	Topic     string    `json:"topic"`
	CreatedAt time.Time `json:"created_at"`
}

// POST /api/scripts
// body: { "topic": "10 minus 4" }
func (h *ScriptHandler) Generate(c *gin.Context) {
	var req struct {
		Topic string `json:"topic"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.lessons.Generate(c.Request.Context(), req.Topic)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"id":          res.StoreID,
		"script_id":   res.ScriptID,
		"state":       res.State,
		"document":    res.Document,
		"audio_files": res.AudioFiles,
		"frame_files": res.FrameFiles,
		"video_files": res.VideoFiles,
	})
}

// GET /api/scripts
func (h *ScriptHandler) List(c *gin.Context) {
	owner, err := services.OwnerFromContext(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	rows, err := h.scripts.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	out := make([]scriptSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, scriptSummary{
			ID:        r.ID.String(),
			ScriptKey: r.ScriptKey,
			Title:     r.Title,
			Topic:     r.Topic,
			CreatedAt: r.CreatedAt,
		})
	}
	response.RespondOK(c, gin.H{"scripts": out})
}

// GET /api/scripts/:id
func (h *ScriptHandler) Get(c *gin.Context) {
	owner, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}
	row, doc, err := h.scripts.Load(c.Request.Context(), owner, id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"script": scriptSummary{
			ID:        row.ID.String(),
			ScriptKey: row.ScriptKey,
			Title:     row.Title,
			Topic:     row.Topic,
			CreatedAt: row.CreatedAt,
		},
		"document": doc,
	})
}

// DELETE /api/scripts/:id
func (h *ScriptHandler) Delete(c *gin.Context) {
	owner, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}
	if err := h.scripts.Delete(c.Request.Context(), owner, id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (h *ScriptHandler) ownerAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	owner, err := services.OwnerFromContext(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondErr(c, fmt.Errorf("%w: invalid script id", apperr.ErrInvalidArgument))
		return uuid.Nil, uuid.Nil, false
	}
	return owner, id, true
}
