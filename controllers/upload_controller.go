package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/atmacsn/agriadmin/apperror"
	"github.com/atmacsn/agriadmin/auth"
	"github.com/atmacsn/agriadmin/middleware"
	"github.com/atmacsn/agriadmin/storage"
	"github.com/atmacsn/agriadmin/utils"
	"github.com/gin-gonic/gin"
)

// multipart framing allowed on top of the file itself
const uploadOverhead = 1 << 20

// POST /upload
func (h *Controller) Upload() middleware.AuthedHandler {
	return func(c *gin.Context, p auth.Principal) {
		if h.files == nil {
			utils.Fail(c, apperror.Unavailable("File storage is not configured"))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.validator.MaxSize()+uploadOverhead)
		fileHeader, err := c.FormFile("file")
		if err != nil {
			h.metrics.Upload("rejected")
			utils.Fail(c, apperror.BadRequest("No file uploaded"))
			return
		}

		contentType, err := h.validator.ValidateFile(fileHeader)
		if err != nil {
			h.metrics.Upload("rejected")
			switch {
			case errors.Is(err, storage.ErrFileTooLarge):
				utils.Fail(c, apperror.TooLarge("File is too large"))
			default:
				utils.Fail(c, apperror.BadRequest(err.Error()))
			}
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		defer file.Close()

		name := storage.ObjectName(fileHeader.Filename, time.Now())
		url, err := h.files.Put(c.Request.Context(), name, file, fileHeader.Size, contentType)
		if err != nil {
			h.metrics.Upload("error")
			h.logger.WithError(err).WithField("user", p.ID.Hex()).Error("upload failed")
			utils.Fail(c, apperror.Internal(err))
			return
		}

		h.metrics.Upload("success")
		utils.Respond(c, http.StatusOK, "File uploaded successfully", gin.H{"fileUrl": url})
	}
}
