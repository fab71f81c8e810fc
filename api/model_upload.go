package api

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"robohub/hub-api/middleware"
	"robohub/hub-api/service"
	"robohub/hub-api/validators"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// uploadAuth authenticates the upload route. The route speaks the
// uniform envelope on every outcome, a missing or invalid credential
// included, so it can't share the plain-error JWT middleware
func (a *API) uploadAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		userID, err := middleware.UserFromRequest(c, a.DB)
		if err != nil {
			switch {
			case errors.Is(err, middleware.ErrNoCookie),
				errors.Is(err, middleware.ErrTokenInvalid),
				errors.Is(err, middleware.ErrTokenExpired),
				errors.Is(err, middleware.ErrUserNotFound):
				respond(c, http.StatusUnauthorized, "Unauthorized", nil)
			default:
				respond(c, http.StatusInternalServerError, "Internal server error", nil)

				zap.L().Error("Failed to authenticate upload", zap.Error(err), zap.String("requestID", requestID))
			}

			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// ModelUpload takes a multipart form with the model's metadata and any
// number of files (folder structure preserved through the part file
// names), uploads everything to S3 and registers the model record once
// every file made it. Responses use the uniform envelope shape
func (a *API) ModelUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	if !strings.HasPrefix(c.Request.Header.Get("Content-Type"), "multipart/form-data") {
		respond(c, http.StatusMethodNotAllowed, "Malformed body", nil)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respond(c, http.StatusMethodNotAllowed, "Malformed body", nil)

		zap.L().Debug("Failed to parse multipart form", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	files := form.File["files"]
	if err := validators.UploadValidator(files); err != nil {
		respond(c, http.StatusMethodNotAllowed, err.Error(), nil)
		return
	}

	session := service.NewUploadSession(userID)
	session.Name = formValue(form.Value, "name")
	session.Description = formValue(form.Value, "description")
	session.License = formValue(form.Value, "license")
	session.Tags = splitList(formValue(form.Value, "tags"))

	var open []io.Closer
	defer func() {
		for _, f := range open {
			f.Close()
		}
	}()

	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			respond(c, http.StatusInternalServerError, "Internal server error", nil)

			zap.L().Error("Failed to open multipart file", zap.Error(err), zap.String("requestID", requestID))
			return
		}
		open = append(open, f)

		mime, err := mimetype.DetectReader(f)
		if err != nil {
			respond(c, http.StatusInternalServerError, "Internal server error", nil)

			zap.L().Error("Failed to detect file type", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if _, err := f.Seek(0, io.SeekStart); err != nil {
			respond(c, http.StatusInternalServerError, "Internal server error", nil)
			return
		}

		// The part file name carries the path relative to the picked
		// folder, base name alone when a flat file list was selected.
		// Anything still escaping upward after Clean never becomes an
		// object key, it would resurface as a ../ entry in the zip
		relPath := strings.TrimPrefix(path.Clean(fh.Filename), "/")
		if relPath == "." || relPath == ".." || strings.HasPrefix(relPath, "../") {
			respond(c, http.StatusMethodNotAllowed, "Malformed body", nil)
			return
		}

		if _, err := session.AddFile(path.Base(relPath), relPath, mime.String(), fh.Size, f); err != nil {
			respond(c, http.StatusInternalServerError, "Internal server error", nil)

			zap.L().Error("Failed to queue file", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	rec, err := a.Coordinator.Submit(c.Request.Context(), session)
	if err != nil {
		var partial *service.PartialUploadError

		switch {
		case errors.Is(err, service.ErrNotAuthenticated):
			respond(c, http.StatusUnauthorized, "Unauthorized", nil)
		case errors.Is(err, validators.ErrNameEmpty),
			errors.Is(err, validators.ErrNameTooLong),
			errors.Is(err, validators.ErrNameInvalid):
			respond(c, http.StatusMethodNotAllowed, err.Error(), nil)
		case errors.As(err, &partial):
			respond(c, http.StatusInternalServerError, "Some files failed to upload", gin.H{
				"failed": partial.Failed,
			})
		default:
			respond(c, http.StatusInternalServerError, "Internal server error", nil)

			zap.L().Error("Upload session failed", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	respond(c, http.StatusOK, "success", rec)
}

func formValue(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}
