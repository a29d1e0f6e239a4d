package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edugen-backend/internal/http/response"
	apperr "github.com/yungbote/edugen-backend/internal/pkg/errors"
)

var mediaKinds = map[string]string{
	"audio":  "audio/mpeg",
	"frames": "image/png",
	"videos": "video/mp4",
}

// MediaHandler serves generated artifacts from the pipeline output directory.
type MediaHandler struct {
	root string
}

func NewMediaHandler(root string) *MediaHandler {
	return &MediaHandler{root: root}
}

// GET /api/media/:kind/:filename
func (h *MediaHandler) Get(c *gin.Context) {
	kind := c.Param("kind")
	contentType, ok := mediaKinds[kind]
	if !ok {
		response.RespondErr(c, fmt.Errorf("%w: unknown media kind %q", apperr.ErrNotFound, kind))
		return
	}
	name := c.Param("filename")
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		response.RespondErr(c, fmt.Errorf("%w: invalid filename", apperr.ErrInvalidArgument))
		return
	}
	path := filepath.Join(h.root, kind, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		response.RespondErr(c, fmt.Errorf("%w: %s/%s", apperr.ErrNotFound, kind, name))
		return
	}
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "private, max-age=3600")
	c.File(path)
}
