package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/you/booklib/domain"
	"github.com/you/booklib/internal/config"
	httpx "github.com/you/booklib/internal/http"
	"github.com/you/booklib/internal/http/handlers"
	"github.com/you/booklib/internal/http/middleware"
	"github.com/you/booklib/internal/infrastructure/auth"
	"github.com/you/booklib/internal/infrastructure/database"
	"github.com/you/booklib/internal/infrastructure/notifications"
	"github.com/you/booklib/internal/infrastructure/repositories"
	"github.com/you/booklib/internal/infrastructure/storage"
	"github.com/you/booklib/internal/logging"
	"github.com/you/booklib/internal/services"
)

// Infra holds the external connections a Container is built on
type Infra struct {
	DB      *gorm.DB
	Redis   redis.UniversalClient
	Mailer  domain.NotificationService
	Storage domain.ObjectStorage
}

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Log    logging.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient redis.UniversalClient
	Casbin      *auth.CasbinService

	// Repositories
	UserRepo       domain.UserRepository
	PendingRepo    domain.PendingRegistrationRepository
	OTPRepo        domain.OTPRepository
	RevocationRepo domain.RevocationRepository
	CategoryRepo   domain.CategoryRepository
	BookRepo       domain.BookRepository

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	StorageSvc      domain.ObjectStorage
	OTPSvc          domain.OTPService
	RegistrationSvc domain.RegistrationService
	AuthSvc         domain.AuthService
	LibrarySvc      domain.LibraryService
	PolicySvc       domain.PolicyService

	Router *gin.Engine
}

// NewContainer connects to Postgres, Redis, SMTP and S3 and wires the service on top
func NewContainer(ctx context.Context, cfg *config.Config, log logging.Logger) (*Container, error) {
	db, err := database.Open(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rdb.Ping(ctx); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	store, err := storage.NewS3Storage(ctx, storage.S3Config{
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		Endpoint:      cfg.S3Endpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		_ = rdb.Close()
		closeDB(db)
		return nil, err
	}

	mailer := notifications.NewSMTPService(notifications.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		Timeout:  cfg.SMTPTimeout,
	}, log)

	c, err := Build(cfg, Infra{DB: db, Redis: rdb.Client, Mailer: mailer, Storage: store}, log)
	if err != nil {
		_ = rdb.Close()
		closeDB(db)
		return nil, err
	}
	return c, nil
}

// Build wires repositories, services and the router on already opened infrastructure
func Build(cfg *config.Config, infra Infra, log logging.Logger) (*Container, error) {
	c := &Container{
		Config:          cfg,
		Log:             log,
		DB:              infra.DB,
		RedisClient:     infra.Redis,
		NotificationSvc: infra.Mailer,
		StorageSvc:      infra.Storage,
	}

	c.initRepositories()
	if err := c.initPolicies(); err != nil {
		return nil, err
	}
	c.initServices()
	c.initRouter()
	return c, nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.OTPRepo = repositories.NewOTPRepository(c.DB)
	c.RevocationRepo = repositories.NewRevocationRepository(c.DB)
	c.CategoryRepo = repositories.NewCategoryRepository(c.DB)
	c.BookRepo = repositories.NewBookRepository(c.DB)
	c.PendingRepo = repositories.NewPendingRegistrationRepository(c.RedisClient, c.Config.PendingPrefix, c.Config.PendingTTL)
}

func (c *Container) initPolicies() error {
	cas, err := auth.NewCasbinService(c.DB, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}
	seeded, err := cas.SeedDefaults()
	if err != nil {
		return fmt.Errorf("seed policies: %w", err)
	}
	if seeded {
		c.Log.Info(context.Background(), "casbin: seeded default policies", "count", len(auth.DefaultPolicies))
	}
	c.Casbin = cas
	c.PolicySvc = services.NewPolicyService(cas.E)
	return nil
}

func (c *Container) initServices() {
	audit := logging.NewAuditLogger(c.Log)

	c.PasswordSvc = auth.NewPasswordService(0)
	c.TokenSvc = auth.NewJWTService(c.Config.JWTSecret, c.Config.JWTIssuer, c.Config.AccessTTL, c.Config.RefreshTTL)

	c.OTPSvc = services.NewOTPService(c.OTPRepo, c.NotificationSvc, audit, c.Log, services.OTPConfig{
		Length: c.Config.OTPLength,
		TTL:    c.Config.OTPTTL,
	})

	locker := repositories.NewRedisLocker(c.RedisClient, "verify_lock_", c.Config.LockTTL, c.Config.LockWait)
	c.RegistrationSvc = services.NewRegistrationService(
		c.UserRepo,
		c.PendingRepo,
		repositories.NewRegistrationStore(c.DB),
		c.OTPSvc,
		c.PasswordSvc,
		locker,
		audit,
		c.Log,
	)
	c.AuthSvc = services.NewAuthService(c.UserRepo, c.RevocationRepo, c.PasswordSvc, c.TokenSvc, audit, c.Log)
	c.LibrarySvc = services.NewLibraryService(c.CategoryRepo, c.BookRepo, c.UserRepo, c.StorageSvc, c.Log)
}

func (c *Container) initRouter() {
	cookies := handlers.CookieSettings{Domain: c.Config.CookieDomain, Secure: c.Config.CookieSecure}
	h := httpx.Handlers{
		Auth:     handlers.NewAuthHandlers(c.RegistrationSvc, c.AuthSvc, cookies, c.Log),
		Library:  handlers.NewLibraryHandlers(c.LibrarySvc, c.Log),
		Policies: handlers.NewPolicyHandlers(c.PolicySvc, c.Log),
	}
	c.Router = httpx.BuildRouter(h, middleware.NewAuthMW(c.AuthSvc), middleware.NewCasbinMW(c.PolicySvc, c.Log), c.Log)
}

// PurgeRevocations drops expired revocation entries every interval until ctx is done
func (c *Container) PurgeRevocations(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := c.RevocationRepo.DeleteExpired(ctx, now)
			if err != nil {
				c.Log.Warn(ctx, "purge revoked tokens", "error", err)
				continue
			}
			if n > 0 {
				c.Log.Debug(ctx, "purged revoked tokens", "count", n)
			}
		}
	}
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
