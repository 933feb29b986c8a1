package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/observability"
)

// multipartOverhead is added to the upload limit to leave room for form framing.
const multipartOverhead = 1 << 20

// AppOptions configures the fiber application.
type AppOptions struct {
	Name           string
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	RequestTimeout time.Duration
	MaxUploadBytes int
}

// NewApp builds a fiber app with the shared error renderer and global middlewares.
func NewApp(opts AppOptions) *fiber.App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics()
	}

	cfg := fiber.Config{
		AppName:               opts.Name,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(logger, metrics),
	}
	if opts.MaxUploadBytes > 0 {
		cfg.BodyLimit = opts.MaxUploadBytes + multipartOverhead
	}

	app := fiber.New(cfg)
	RegisterMiddlewares(app, logger, metrics, opts.RequestTimeout)
	return app
}
