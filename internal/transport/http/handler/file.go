package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"redrose-ai/internal/app"
	"redrose-ai/internal/transport/http/response"
)

// multipartOverhead covers boundaries and part headers on top of the file.
const multipartOverhead = 64 << 10

type FileHandler struct {
	fileService *app.FileService
	maxBytes    int64
}

type DeleteFileRequest struct {
	FileID flexID `json:"fileId"`
}

// NewFileHandler caps request bodies at maxBytes plus multipart framing; a
// non-positive maxBytes leaves the body uncapped.
func NewFileHandler(fileService *app.FileService, maxBytes int64) *FileHandler {
	return &FileHandler{fileService: fileService, maxBytes: maxBytes}
}

func (h *FileHandler) Upload(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, app.ErrFileTooLarge.Error())
			return
		}
		response.Error(c, http.StatusBadRequest, "No file provided")
		return
	}
	if h.maxBytes > 0 && header.Size > h.maxBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, app.ErrFileTooLarge.Error())
		return
	}

	src, err := header.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "unreadable file")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "unreadable file")
		return
	}

	result, err := h.fileService.Ingest(c.Request.Context(), userID, app.UploadedFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrFileTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, err.Error())
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "Failed to process file")
		}
		return
	}

	var fileID any
	if result.FileID != 0 {
		fileID = result.FileID
	}
	response.OK(c, gin.H{
		"analysis":  result.Analysis,
		"fileId":    fileID,
		"processed": result.Processed,
	})
}

func (h *FileHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	files, err := h.fileService.List(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Failed to get files")
		return
	}
	response.OK(c, gin.H{"files": files})
}

func (h *FileHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	fileID, valid := parseID(c.Param("id"))
	if !valid {
		response.Error(c, http.StatusBadRequest, "invalid file id")
		return
	}

	file, err := h.fileService.Get(c.Request.Context(), userID, fileID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrFileNotFound):
			response.Error(c, http.StatusNotFound, "File not found")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "Failed to get file")
		}
		return
	}
	response.OK(c, gin.H{"file": file})
}

func (h *FileHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req DeleteFileRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FileID == 0 {
		response.Error(c, http.StatusBadRequest, "fileId is required")
		return
	}

	if _, err := h.fileService.Delete(c.Request.Context(), userID, uint(req.FileID)); err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Failed to delete file")
		return
	}
	response.OK(c, gin.H{"success": true})
}
