package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"classaction-admin/internal/common/errors"
	"classaction-admin/internal/dashboard"
	"classaction-admin/internal/search"
)

type tableResponse struct {
	OK      bool     `json:"ok"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
	Total   int      `json:"total"`
}

func newTableResponse(t dashboard.Table) tableResponse {
	return tableResponse{
		OK:      true,
		Columns: t.Columns,
		Rows:    dashboard.RenderCells(t),
		Total:   t.Len(),
	}
}

// GET /api/members?q=
func (h *Handler) ListMembers(c *gin.Context) {
	var f dashboard.MemberFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		h.writeError(c, errors.NewInvalidFilterFormatError(err.Error()))
		return
	}

	table, err := h.service.MemberTable(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTableResponse(table))
}

// GET /api/members/detail?email=
func (h *Handler) MemberDetail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		h.writeError(c, errors.NewInvalidFilterFormatError("email is required"))
		return
	}

	fields, err := h.service.MemberDetail(c.Request.Context(), email)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "fields": fields})
}

// GET /api/members/export?q=
func (h *Handler) ExportMembers(c *gin.Context) {
	var f dashboard.MemberFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		h.writeError(c, errors.NewInvalidFilterFormatError(err.Error()))
		return
	}

	file, err := h.service.ExportMembers(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	writeExport(c, file)
}

// GET /api/submissions?member_email=&litigation=&franchise=
func (h *Handler) ListSubmissions(c *gin.Context) {
	var f dashboard.SubmissionFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		h.writeError(c, errors.NewInvalidFilterFormatError(err.Error()))
		return
	}

	table, err := h.service.SubmissionTable(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTableResponse(table))
}

func (h *Handler) ExportSubmissions(c *gin.Context) {
	var f dashboard.SubmissionFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		h.writeError(c, errors.NewInvalidFilterFormatError(err.Error()))
		return
	}

	file, err := h.service.ExportSubmissions(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	writeExport(c, file)
}

func (h *Handler) SubmissionDetail(c *gin.Context) {
	id, ok := h.submissionID(c)
	if !ok {
		return
	}

	fields, err := h.service.SubmissionDetail(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "fields": fields})
}

// PUT /api/submissions/:id
func (h *Handler) EditSubmission(c *gin.Context) {
	id, ok := h.submissionID(c)
	if !ok {
		return
	}

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.writeError(c, errors.NewEditValidationFailedError(fmt.Sprintf("request body must be a JSON object: %v", err)))
		return
	}

	if err := h.service.SaveSubmissionEdit(c.Request.Context(), id, payload); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) DailyCounts(c *gin.Context) {
	var f dashboard.SubmissionFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		h.writeError(c, errors.NewInvalidFilterFormatError(err.Error()))
		return
	}

	days, err := h.service.DailyCounts(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "days": days})
}

func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "summary": summary})
}

// POST /api/cache/refresh
func (h *Handler) RefreshCache(c *gin.Context) {
	if err := h.service.Refresh(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /api/search?q=&franchise=&status=&sort=&page=&size=
func (h *Handler) Search(c *gin.Context) {
	if h.search == nil {
		h.writeError(c, errors.NewSearchDisabledError())
		return
	}

	var q search.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeError(c, errors.NewInvalidFilterFormatError(err.Error()))
		return
	}

	result, err := h.search.Search(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"items": result.Items,
		"page":  result.Page,
		"size":  result.Size,
		"total": result.Total,
	})
}

func (h *Handler) submissionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(c, errors.NewInvalidFilterFormatError(fmt.Sprintf("invalid submission id %q", c.Param("id"))))
		return 0, false
	}
	return id, true
}

func writeExport(c *gin.Context, file *dashboard.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(file.FileName)))
	c.Header("X-Export-Rows", strconv.Itoa(file.RowCount))
	c.Data(http.StatusOK, file.MimeType, file.Content)
}

// writeError answers with the error's code and the HTTP status mapped from it.
func (h *Handler) writeError(c *gin.Context, err error) {
	stdErr := errors.Normalize(err)
	status := errors.HTTPStatus(stdErr.Code)

	if status >= http.StatusInternalServerError {
		h.logger.Error("request error", map[string]interface{}{
			"code":      string(stdErr.Code),
			"details":   stdErr.Details,
			"requestId": c.GetString(requestIDKey),
		})
	}

	c.AbortWithStatusJSON(status, gin.H{
		"ok": false,
		"error": gin.H{
			"code":    stdErr.Code,
			"message": stdErr.Message,
		},
	})
}
