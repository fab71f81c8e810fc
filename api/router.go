// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"robohub/hub-api/aws"
	"robohub/hub-api/db"
	"robohub/hub-api/middleware"
	"robohub/hub-api/security"
	"robohub/hub-api/service"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB          *gorm.DB
	Router      *gin.Engine
	Argon       *security.ArgonHash
	S3          *aws.S3Client
	Catalog     *service.Catalog
	Coordinator *service.Coordinator
}

func NewRouter() (*API, error) {
	a := &API{}

	db, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite database, %w", err)
	}
	a.DB = db

	makeLogger()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	maxUploadSize := viper.GetInt64("upload.max_size")
	maxUploadFiles := viper.GetInt64("upload.max_files")

	jwt := middleware.NewJWTMiddleware(db)
	limited := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 5,
		Burst:             10,
	})

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// HEAD /api/validate		-> Validates a JWT token
		main.HEAD("/validate", jwt, a.Validate)

		// POST /api/upload		-> Uploads a model's files and registers it.
		// Auth runs through uploadAuth, the route answers 401 in the
		// same envelope as every other outcome
		main.POST("/upload", a.uploadAuth(), middleware.BodySizeLimiter(maxUploadSize*maxUploadFiles), a.ModelUpload)
	}

	users := main.Group("/users", middleware.BodySizeLimiter(1<<20))
	{
		// GET /api/users		-> Returns the profile, stats and models of a user
		users.GET("", jwt, a.UserFetch)

		// POST /api/users 		-> Registers a new user
		users.POST("", limited, a.UserRegister)

		// POST /api/users/login 	-> Logs in a user and returns a JWT token
		users.POST("/login", limited, a.UserLogin)

		// PATCH /api/users		-> Updates the display name of a user
		users.PATCH("", jwt, a.UserUpdate)
	}

	models := main.Group("/models")
	{
		// GET /api/models 		-> Lists the public model catalog
		models.GET("", cacheFor(30), a.ModelList)

		// GET /api/models/:owner/:name	-> Fetches a single model
		models.GET("/:owner/:name", a.ModelFetch)

		// GET /api/models/:owner/:name/download -> Bundles a model's folder into a zip
		models.GET("/:owner/:name/download", a.ModelDownload)
	}

	datasets := main.Group("/datasets")
	{
		// GET /api/datasets		-> Lists the curated dataset catalog
		datasets.GET("", cacheFor(60), a.DatasetList)
	}

	deployments := main.Group("/deployments", jwt)
	{
		// GET /api/deployments		-> Lists the user's deployments
		deployments.GET("", a.DeploymentList)

		// POST /api/deployments	-> Creates a (mocked) deployment
		deployments.POST("", a.DeploymentCreate)

		// DELETE /api/deployments/:id	-> Tears a deployment down
		deployments.DELETE("/:id", a.DeploymentDelete)
	}

	a.Argon = security.New()

	s3, err := aws.NewS3()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
	}

	a.S3 = s3
	a.Catalog = service.NewCatalog(db)
	a.Coordinator = service.NewCoordinator(s3, service.NewRecords(db))

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
