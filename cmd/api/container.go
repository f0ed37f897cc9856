package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/spec-kit/school-portal/internal/auth"
	"github.com/spec-kit/school-portal/internal/config"
	"github.com/spec-kit/school-portal/internal/events"
	"github.com/spec-kit/school-portal/internal/observability"
	"github.com/spec-kit/school-portal/internal/persistence"
	"github.com/spec-kit/school-portal/internal/repository"
	"github.com/spec-kit/school-portal/internal/service"
	"github.com/spec-kit/school-portal/internal/storage"
)

// container holds the long-lived collaborators shared by every subcommand.
type container struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *observability.Metrics

	postgres    *persistence.Postgres
	redis       *persistence.Redis
	revocations *auth.RevocationStore
	store       *storage.S3Store

	tokens     *auth.TokenManager
	policy     auth.RolePolicy
	dispatcher events.Dispatcher

	roles        *service.RoleService
	authService  *service.AuthService
	users        *service.UserService
	publications *service.PublicationService
	comments     *service.CommentService
	tags         *service.TagService
	categories   *service.CategoryService
	directors    *service.DirectorService
	contact      *service.ContactService
	destinations *service.DestinationEmailService
	uploads      *service.UploadService
	gallery      *service.GalleryService
	seed         *service.SeedService
}

func loadConfigAndLogger() (*config.Config, *zap.Logger) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	return cfg, logger
}

// newContainer connects to the stores and builds every service.
func newContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger, migrate bool) (*container, error) {
	c := &container{
		cfg:     cfg,
		logger:  logger,
		metrics: observability.NewMetrics(),
		policy:  auth.DefaultRolePolicy(),
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	c.postgres = pg

	if migrate {
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			c.close()
			return nil, err
		}
	}

	c.redis = persistence.NewRedis(ctx, cfg.Redis, logger)
	if c.redis != nil {
		c.revocations = auth.NewRevocationStore(c.redis.Client, cfg.Auth.TokenTTL)
	}

	if cfg.Storage.Enabled() {
		store, err := storage.NewS3Store(ctx, cfg.Storage)
		if err != nil {
			c.close()
			return nil, fmt.Errorf("init storage: %w", err)
		}
		c.store = store
	} else {
		logger.Warn("S3_BUCKET not provided; uploads disabled")
	}

	c.tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	c.dispatcher = events.NewInMemoryDispatcher(logger)
	c.buildServices()
	return c, nil
}

func (c *container) buildServices() {
	pool := c.postgres.Pool
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	publicationRepo := repository.NewPublicationRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	tagRepo := repository.NewTagRepository(pool)

	var revoker service.TokenRevoker
	if c.revocations != nil {
		revoker = c.revocations
	}

	c.roles = service.NewRoleService(roleRepo, c.cfg.Auth.RoleCacheTTL)
	c.authService = service.NewAuthService(service.AuthDependencies{
		UserRepo:   userRepo,
		Roles:      c.roles,
		Tokens:     c.tokens,
		Revoker:    revoker,
		Dispatcher: c.dispatcher,
		BcryptCost: c.cfg.Auth.BcryptCost,
		Logger:     c.logger,
	})
	c.users = service.NewUserService(userRepo, roleRepo, revoker, c.logger)
	c.publications = service.NewPublicationService(service.PublicationDependencies{
		PublicationRepo: publicationRepo,
		CommentRepo:     commentRepo,
		Policy:          c.policy,
		Logger:          c.logger,
	})
	c.comments = service.NewCommentService(commentRepo, publicationRepo, c.policy)
	c.tags = service.NewTagService(tagRepo)
	c.categories = service.NewCategoryService(repository.NewCategoryRepository(pool))
	c.directors = service.NewDirectorService(repository.NewDirectorRepository(pool))

	destinationRepo := repository.NewDestinationEmailRepository(pool)
	c.contact = service.NewContactService(service.ContactDependencies{
		SubjectRepo:     repository.NewContactSubjectRepository(pool),
		MessageRepo:     repository.NewContactMessageRepository(pool),
		DestinationRepo: destinationRepo,
		Dispatcher:      c.dispatcher,
		Logger:          c.logger,
	})
	c.destinations = service.NewDestinationEmailService(destinationRepo)

	var store storage.ObjectStore
	if c.store != nil {
		store = c.store
	}
	c.uploads = service.NewUploadService(store, service.UploadLimits{
		MaxImageBytes: c.cfg.Storage.MaxImageBytes,
		MaxVideoBytes: c.cfg.Storage.MaxVideoBytes,
	})
	c.gallery = service.NewGalleryService(repository.NewGalleryRepository(pool), c.uploads, c.logger)
	c.seed = service.NewSeedService(c.roles, c.tags, c.contact, c.authService, c.logger)
}

func (c *container) close() {
	c.redis.Close()
	if c.postgres != nil {
		c.postgres.Close()
	}
}
