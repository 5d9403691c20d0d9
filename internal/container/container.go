package container

import (
	"context"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pixcredit/config"
	"github.com/oksasatya/pixcredit/internal/application"
	repo "github.com/oksasatya/pixcredit/internal/domain/repository"
	"github.com/oksasatya/pixcredit/internal/infrastructure/cache"
	"github.com/oksasatya/pixcredit/internal/infrastructure/imagegen"
	"github.com/oksasatya/pixcredit/internal/infrastructure/payment"
	pginfra "github.com/oksasatya/pixcredit/internal/infrastructure/postgres"
	"github.com/oksasatya/pixcredit/internal/infrastructure/search"
	gcsinfra "github.com/oksasatya/pixcredit/internal/infrastructure/storage"
	"github.com/oksasatya/pixcredit/pkg/helpers"
	"github.com/oksasatya/pixcredit/pkg/httpclient"
	"github.com/oksasatya/pixcredit/pkg/mailer"
)

// Clients are the connections opened by main. GCS, ES and Rabbit are optional.
type Clients struct {
	Pool   *pgxpool.Pool
	Redis  *redis.Client
	GCS    *storage.Client
	ES     *elasticsearch.Client
	Rabbit *helpers.RabbitPublisher
	// Mail delivers verification codes synchronously.
	Mail mailer.Sender
}

// Container holds every constructed component. It is built once in main and
// passed explicitly to the router; nothing here is global.
type Container struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Clients Clients

	Tokens   *helpers.TokenManager
	Hasher   *helpers.PasswordHasher
	Sessions *cache.SessionCache
	Credits  *cache.CreditCache

	Users        *pginfra.UserRepository
	Transactions *pginfra.TransactionRepository
	Images       *pginfra.ImageRepository
	ImageIndex   *search.ImageIndex

	Auth          *application.AuthService
	Authenticator *application.Authenticator
	Balance       *application.CreditService
	Settlement    *application.SettlementService
	Imaging       *application.ImageService
}

func New(cfg *config.Config, logger *logrus.Logger, cl Clients) *Container {
	c := &Container{Config: cfg, Logger: logger, Clients: cl}

	c.Tokens = helpers.NewTokenManager(cfg.JWTSecret, cfg.RegisterTokenTTL, cfg.LoginTokenTTL, cfg.ResetTokenTTL)
	c.Hasher = helpers.NewPasswordHasher(cfg.BcryptCost)
	c.Sessions = cache.NewSessionCache(cl.Redis, cfg.SessionCacheTTL)
	c.Credits = cache.NewCreditCache(cl.Redis, cfg.CreditsCacheTTL)

	c.Users = pginfra.NewUserRepository(cl.Pool)
	c.Transactions = pginfra.NewTransactionRepository(cl.Pool)
	c.Images = pginfra.NewImageRepository(cl.Pool)

	var queue mailer.Publisher
	if cl.Rabbit != nil {
		queue = cl.Rabbit
	}
	notifier := mailer.NewNotifier(cfg.AppName, cl.Mail, queue, logger)

	c.Auth = application.NewAuthService(c.Users, c.Tokens, c.Hasher, c.Sessions, notifier, logger,
		cfg.VerificationTTL, cfg.ResetPasswordURL)
	c.Authenticator = application.NewAuthenticator(c.Sessions, c.Tokens, logger)
	c.Balance = application.NewCreditService(c.Users, c.Transactions, c.Credits, logger)

	gatewayHTTP := httpclient.New(httpclient.DefaultConfig("razorpay", cfg.GatewayTimeout), logger)
	gateway := payment.NewRazorpay(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, gatewayHTTP)
	c.Settlement = application.NewSettlementService(c.Transactions, gateway, c.Credits, cfg.Currency, logger)

	imageHTTP := httpclient.New(httpclient.DefaultConfig("clipdrop", cfg.ImageTimeout), logger)
	generator := imagegen.NewClipDrop(cfg.ClipDropURL, cfg.ClipDropAPIKey, imageHTTP)

	// Interfaces stay nil when the backing client is absent.
	var index repo.ImageIndex
	if cl.ES != nil {
		c.ImageIndex = search.NewImageIndex(cl.ES, cfg.ESImagesIndex)
		index = c.ImageIndex
	}
	var store application.ObjectStore
	if cl.GCS != nil && cfg.GCSBucket != "" {
		store = gcsinfra.NewGCSStore(cl.GCS, cfg.GCSBucket)
	}
	c.Imaging = application.NewImageService(c.Users, c.Images, index, generator, store, c.Credits, logger)

	return c
}

// EnsureIndexes prepares optional search indexes. Failures are logged only.
func (c *Container) EnsureIndexes(ctx context.Context) {
	if c.ImageIndex == nil {
		return
	}
	if err := c.ImageIndex.EnsureIndex(ctx); err != nil {
		c.Logger.WithError(err).Warn("elasticsearch index setup failed")
	}
}

// Close releases every client in reverse order of creation.
func (c *Container) Close() {
	if c.Clients.Rabbit != nil {
		c.Clients.Rabbit.Close()
	}
	if c.Clients.GCS != nil {
		_ = c.Clients.GCS.Close()
	}
	if c.Clients.Redis != nil {
		_ = c.Clients.Redis.Close()
	}
	if c.Clients.Pool != nil {
		c.Clients.Pool.Close()
	}
}
