package handler

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/files-manager/internal/middleware"
	"github.com/iliyamo/files-manager/internal/model"
	"github.com/iliyamo/files-manager/internal/service"
)

// FileHandler serves the /files endpoints.
type FileHandler struct {
	Files *service.FileService
	Log   *zap.Logger
}

// parentRef decodes parentId: absent, null, false, 0, "0" and "" all mean
// root.  Any other value is kept as an id string for lookup.
type parentRef struct {
	id *string
}

func (p *parentRef) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch raw {
	case "null", "false", "0", `"0"`, `""`:
		p.id = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		s = raw
	}
	p.id = &s
	return nil
}

type uploadReq struct {
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	ParentID parentRef `json:"parentId"`
	IsPublic bool      `json:"isPublic"`
	Data     string    `json:"data"`
}

// fileResp is the public projection of a node.  Root nodes report parentId 0.
type fileResp struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID any    `json:"parentId"`
}

func toFileResp(n *model.FileNode) fileResp {
	r := fileResp{
		ID:       n.ID,
		UserID:   n.OwnerID,
		Name:     n.Name,
		Type:     string(n.Kind),
		IsPublic: n.IsPublic,
		ParentID: 0,
	}
	if n.ParentID != nil {
		r.ParentID = *n.ParentID
	}
	return r
}

// Upload handles POST /files.
func (h *FileHandler) Upload(c echo.Context) error {
	var req uploadReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Files.Upload(ctx, middleware.UserID(c), service.UploadInput{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: req.ParentID.id,
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, toFileResp(n))
	case errors.Is(err, service.ErrMissingName),
		errors.Is(err, service.ErrMissingType),
		errors.Is(err, service.ErrMissingData),
		errors.Is(err, service.ErrParentNotFound),
		errors.Is(err, service.ErrParentNotFolder):
		return errorJSON(c, http.StatusBadRequest, err)
	default:
		return internalError(c, h.Log, "upload", err)
	}
}

// Show handles GET /files/:id.
func (h *FileHandler) Show(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Files.Get(ctx, middleware.UserID(c), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found"})
	}
	return c.JSON(http.StatusOK, toFileResp(n))
}

// Index handles GET /files?parentId=&page=.
func (h *FileHandler) Index(c echo.Context) error {
	var parent *string
	if p := c.QueryParam("parentId"); p != "" && p != "0" {
		parent = &p
	}
	page := 0
	if raw := c.QueryParam("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusOK, []fileResp{})
		}
		page = v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	nodes, err := h.Files.List(ctx, middleware.UserID(c), parent, page)
	if err != nil {
		return internalError(c, h.Log, "list files", err)
	}
	out := make([]fileResp, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, toFileResp(n))
	}
	return c.JSON(http.StatusOK, out)
}

// Publish handles PUT /files/:id/publish.
func (h *FileHandler) Publish(c echo.Context) error { return h.setPublic(c, true) }

// Unpublish handles PUT /files/:id/unpublish.
func (h *FileHandler) Unpublish(c echo.Context) error { return h.setPublic(c, false) }

func (h *FileHandler) setPublic(c echo.Context, value bool) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Files.SetPublic(ctx, middleware.UserID(c), c.Param("id"), value)
	if errors.Is(err, service.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found"})
	}
	if err != nil {
		return internalError(c, h.Log, "set public", err)
	}
	return c.JSON(http.StatusOK, toFileResp(n))
}

// Data handles GET /files/:id/data[?size=500|250|100].  The token is
// optional: public files are readable by anyone.
func (h *FileHandler) Data(c echo.Context) error {
	size := 0
	if raw := c.QueryParam("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v == 0 {
			v = -1
		}
		size = v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	data, n, err := h.Files.Content(ctx, middleware.UserID(c), c.Param("id"), size)
	switch {
	case err == nil:
		return c.Blob(http.StatusOK, contentType(n.Name), data)
	case errors.Is(err, service.ErrFolderContent), errors.Is(err, service.ErrInvalidSize):
		return errorJSON(c, http.StatusBadRequest, err)
	default:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found"})
	}
}

func contentType(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return echo.MIMEOctetStream
}
