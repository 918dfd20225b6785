package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/andeslogistics/dock-scheduler/internal/middleware"
	"github.com/andeslogistics/dock-scheduler/internal/model"
	"github.com/andeslogistics/dock-scheduler/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxIncidentFiles = 5

type IncidentHandler struct {
	svc       service.IncidentServicer
	uploadDir string
}

func NewIncidentHandler(svc service.IncidentServicer, uploadDir string) *IncidentHandler {
	return &IncidentHandler{svc: svc, uploadDir: uploadDir}
}

// Create accepts a multipart form: the 5W2H fields plus up to five
// attachments under "files". Attachments already written to disk are removed
// again when the record cannot be created.
func (h *IncidentHandler) Create(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}
	apptID, err := strconv.ParseUint(c.PostForm("appointment_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appointment_id"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}
	uploads := form.File["files"]
	if len(uploads) > maxIncidentFiles {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d files allowed", maxIncidentFiles)})
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		writeError(c, err)
		return
	}
	var files []model.IncidentFile
	var saved []string
	cleanup := func() {
		for _, path := range saved {
			os.Remove(path)
		}
	}
	for _, fh := range uploads {
		name := uuid.NewString() + filepath.Ext(fh.Filename)
		dst := filepath.Join(h.uploadDir, name)
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			cleanup()
			writeError(c, err)
			return
		}
		saved = append(saved, dst)
		files = append(files, model.IncidentFile{
			Name:        fh.Filename,
			URL:         "/uploads/" + name,
			ContentType: fh.Header.Get("Content-Type"),
		})
	}

	inc, err := h.svc.Create(c.Request.Context(), service.CreateIncidentInput{
		AppointmentID: apptID,
		What:          c.PostForm("what"),
		Why:           c.PostForm("why"),
		Where:         c.PostForm("where"),
		Who:           c.PostForm("who"),
		How:           c.PostForm("how"),
		HowMuch:       c.PostForm("how_much"),
		Files:         files,
	}, claims.UserID)
	if err != nil {
		cleanup()
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inc)
}

func (h *IncidentHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
