// Package httpapi serves the backup endpoints and the bulk shipment status
// update over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/cargodesk/internal/logging"
	"github.com/dmitrijs2005/cargodesk/internal/server/lock"
	"github.com/dmitrijs2005/cargodesk/internal/server/metrics"
	"github.com/dmitrijs2005/cargodesk/internal/server/services"
	"github.com/dmitrijs2005/cargodesk/internal/server/snapshot"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type BackupService interface {
	ExportArchive(ctx context.Context) ([]byte, *snapshot.Manifest, error)
	Restore(ctx context.Context, data []byte) (*snapshot.RestoreReport, error)
	Stats(ctx context.Context) (*snapshot.Stats, error)
	Info(data []byte) (*snapshot.Manifest, error)
}

type ShipmentService interface {
	BulkUpdateStatus(ctx context.Context, req services.BulkStatusUpdate) (*services.BulkStatusResult, error)
}

type Options struct {
	Address       string
	SecretKey     string
	MaxUploadSize int64
	AllowOrigins  []string
}

type HTTPServer struct {
	address   string
	backup    BackupService
	shipments ShipmentService
	locker    lock.Locker
	metrics   *metrics.Metrics
	logger    logging.Logger
	jwtSecret []byte
	maxUpload int64
	origins   []string
}

func NewHTTPServer(opts Options, l logging.Logger, bs BackupService, ss ShipmentService, lk lock.Locker, m *metrics.Metrics) *HTTPServer {
	return &HTTPServer{
		address:   opts.Address,
		backup:    bs,
		shipments: ss,
		locker:    lk,
		metrics:   m,
		logger:    l.With("module", "http_server"),
		jwtSecret: []byte(opts.SecretKey),
		maxUpload: opts.MaxUploadSize,
		origins:   opts.AllowOrigins,
	}
}

// Handler builds the gin engine with every route and middleware attached.
func (s *HTTPServer) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.correlationID)
	r.Use(s.requestLogger)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = s.origins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", CorrelationHeader)
	corsConfig.ExposeHeaders = []string{"Content-Disposition", CorrelationHeader}
	if len(s.origins) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api", s.authenticate)

	backup := api.Group("/backup", requireRole(managerRole))
	backup.GET("/export", s.exportBackup)
	backup.POST("/import", s.importBackup)
	backup.POST("/info", s.backupInfo)
	backup.GET("/stats", s.backupStats)

	api.POST("/shipments/bulk-status", s.bulkStatus)

	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
