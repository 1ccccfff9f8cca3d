package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/cargodesk/internal/common"
	"github.com/dmitrijs2005/cargodesk/internal/netx"
	"github.com/dmitrijs2005/cargodesk/internal/server/services"
	"github.com/gin-gonic/gin"
)

// UploadField is the multipart field carrying the archive.
const UploadField = "backup"

var errNoFile = errors.New("no backup file provided")

// statusFor maps a service error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrMalformedArchive),
		errors.Is(err, common.ErrInvalidSnapshotFormat),
		errors.Is(err, errNoFile):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrImportInProgress):
		return http.StatusConflict
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) fail(c *gin.Context, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	abort(c, code, err.Error())
}

func (s *HTTPServer) exportBackup(c *gin.Context) {
	data, manifest, err := s.backup.ExportArchive(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	name := fmt.Sprintf("%s-backup-%s.zip", common.AppName, manifest.ExportDate.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, netx.ArchiveContentType, data)
}

// readUpload returns the bytes of the uploaded archive, refusing bodies
// above the configured limit.
func (s *HTTPServer) readUpload(c *gin.Context) ([]byte, error) {
	if s.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)
	}

	fh, err := c.FormFile(UploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: upload exceeds %d bytes", common.ErrMalformedArchive, tooLarge.Limit)
		}
		return nil, errNoFile
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrMalformedArchive, err)
	}
	defer f.Close()

	return io.ReadAll(f)
}

func (s *HTTPServer) importBackup(c *gin.Context) {
	ctx := c.Request.Context()

	data, err := s.readUpload(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	release, err := s.locker.Acquire(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	defer release(ctx)

	report, err := s.backup.Restore(ctx, data)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "importedData": report})
}

func (s *HTTPServer) backupInfo(c *gin.Context) {
	data, err := s.readUpload(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	manifest, err := s.backup.Info(data)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, manifest)
}

func (s *HTTPServer) backupStats(c *gin.Context) {
	stats, err := s.backup.Stats(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *HTTPServer) bulkStatus(c *gin.Context) {
	var req services.BulkStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	req.UserID = claimsFrom(c).UserID

	res, err := s.shipments.BulkUpdateStatus(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "updated": res.Updated, "failed": res.Failed})
}
