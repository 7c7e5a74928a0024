package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderramin/pantry/internal/app"
	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/alexanderramin/pantry/internal/service"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type handlers struct {
	svc *app.Services
}

// Inventory

func (h *handlers) listInventory(c *gin.Context) {
	items, err := h.svc.Inventory.List(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, gin.H{"items": toInventoryViews(items)})
}

func (h *handlers) createInventory(c *gin.Context) {
	var in service.InventoryItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	item, err := h.svc.Inventory.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, toInventoryView(item))
}

func (h *handlers) updateInventory(c *gin.Context) {
	var in service.InventoryItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	item, err := h.svc.Inventory.Update(c.Request.Context(), userID(c), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, toInventoryView(item))
}

type quantityRequest struct {
	Quantity *float64 `json:"quantity" binding:"required"`
}

func (h *handlers) setInventoryQuantity(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "quantity is required")
		return
	}
	item, err := h.svc.Inventory.SetQuantity(c.Request.Context(), userID(c), c.Param("id"), *req.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, toInventoryView(item))
}

func (h *handlers) deleteInventory(c *gin.Context) {
	if err := h.svc.Inventory.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	success(c, nil)
}

// Projects

func (h *handlers) listProjects(c *gin.Context) {
	opts := service.ListProjectsOptions{Search: c.Query("search")}
	if v := c.Query("public"); v != "" {
		public, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(c, "public must be a boolean")
			return
		}
		opts.IncludePublic = public
	}
	projects, err := h.svc.Projects.List(c.Request.Context(), userID(c), opts)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, gin.H{"items": toProjectViews(projects)})
}

func (h *handlers) getProject(c *gin.Context) {
	detail, err := h.svc.Projects.GetDetail(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, toProjectDetailView(detail))
}

func (h *handlers) getProjectForm(c *gin.Context) {
	form, err := h.svc.Saver.LoadForm(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, form)
}

type saveView struct {
	Project       projectView `json:"project"`
	SubprojectIDs []string    `json:"subproject_ids"`
	MaterialCount int         `json:"material_count"`
}

func toSaveView(res *service.SaveResult) saveView {
	return saveView{
		Project:       toProjectView(res.Project),
		SubprojectIDs: res.SubprojectIDs,
		MaterialCount: res.MaterialCount,
	}
}

func (h *handlers) createProject(c *gin.Context) {
	var form domain.ProjectForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	res, err := h.svc.Saver.Create(c.Request.Context(), userID(c), form)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, toSaveView(res))
}

func (h *handlers) updateProject(c *gin.Context) {
	var form domain.ProjectForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	res, err := h.svc.Saver.Update(c.Request.Context(), userID(c), c.Param("id"), form)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, toSaveView(res))
}

func (h *handlers) deleteProject(c *gin.Context) {
	if err := h.svc.Projects.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	success(c, nil)
}

// Fulfillment

func (h *handlers) fulfillProject(c *gin.Context) {
	res, err := h.svc.Fulfillment.FulfillProject(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failFulfill(c, err, res)
		return
	}
	success(c, res)
}

func (h *handlers) fulfillMaterials(c *gin.Context) {
	var req service.FulfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	req.UserID = userID(c)
	res, err := h.svc.Fulfillment.Fulfill(c.Request.Context(), req)
	if err != nil {
		failFulfill(c, err, res)
		return
	}
	success(c, res)
}

// failFulfill attaches the partial result to the error body when the batch
// got far enough to produce one.
func failFulfill(c *gin.Context, err error, res *service.FulfillResult) {
	if res == nil {
		fail(c, err)
		return
	}
	failWithData(c, err, res)
}

// Reports

func (h *handlers) projectReport(c *gin.Context) {
	report, err := h.svc.Reports.ProjectReport(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, report)
}

func (h *handlers) projectReportXLSX(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.Reports.ExportXLSX(c.Request.Context(), userID(c), &buf); err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.ReportFilename(time.Now())))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Files

func (h *handlers) listFiles(c *gin.Context) {
	files, err := h.svc.Files.List(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, gin.H{"items": toFileViews(files)})
}

func (h *handlers) attachFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	body, err := header.Open()
	if err != nil {
		badRequest(c, "reading upload: "+err.Error())
		return
	}
	defer body.Close()

	f, err := h.svc.Files.Attach(c.Request.Context(), service.AttachFileRequest{
		UserID:       userID(c),
		ProjectID:    c.Param("id"),
		SubprojectID: c.PostForm("subproject_id"),
		Name:         header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Description:  c.PostForm("description"),
		Body:         body,
	})
	if err != nil {
		fail(c, err)
		return
	}
	created(c, toFileView(f))
}

func (h *handlers) downloadFile(c *gin.Context) {
	f, body, err := h.svc.Files.Open(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	defer body.Close()

	headers := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", f.Name()),
	}
	c.DataFromReader(http.StatusOK, f.SizeBytes, f.FileType, body, headers)
}

func (h *handlers) deleteFile(c *gin.Context) {
	if err := h.svc.Files.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	success(c, nil)
}
