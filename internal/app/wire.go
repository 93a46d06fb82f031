package app

import (
	"context"
	"errors"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"styleshop/internal/cache"
	"styleshop/internal/config"
	"styleshop/internal/database"
	"styleshop/internal/repositories"
	"styleshop/internal/search"
	"styleshop/internal/services"
	"styleshop/internal/stylist"
	"styleshop/pkg/rabbitmq"
)

// Infra holds the connections opened at startup. Every optional backend
// is nil when it is not configured or not reachable.
type Infra struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Elastic *elasticsearch.Client
	MQ      *rabbitmq.Client
	Mongo   *mongo.Client

	closers []func() error
}

// Connect opens the database and whatever optional backends cfg names.
// Only the database is mandatory.
func Connect(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Infra, error) {
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, log)
	if err != nil {
		return nil, err
	}
	infra := &Infra{DB: db}
	if sqlDB, err := db.DB(); err == nil {
		infra.closers = append(infra.closers, sqlDB.Close)
	}

	if cfg.RedisAddr != "" {
		rdb := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("redis unreachable, cache and rate limiting disabled")
			_ = rdb.Close()
		} else {
			infra.Redis = rdb
			infra.closers = append(infra.closers, rdb.Close)
		}
	} else {
		log.Warn("REDIS_ADDR not set, cache and rate limiting disabled")
	}

	if len(cfg.ESAddresses) > 0 {
		es, err := search.NewClient(cfg.ESAddresses, cfg.ESUsername, cfg.ESPassword)
		if err != nil {
			log.WithError(err).Warn("elasticsearch client unavailable, using database search")
		} else {
			infra.Elastic = es
		}
	} else {
		log.Warn("ES_ADDRESSES not set, using database search")
	}

	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			log.WithError(err).Warn("rabbitmq unreachable, order events disabled")
		} else {
			infra.MQ = mq
			infra.closers = append(infra.closers, mq.Close)
		}
	} else {
		log.Warn("RABBITMQ_URL not set, order events disabled")
	}

	if cfg.OutfitStore == "mongo" {
		client, err := repositories.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			_ = infra.Close()
			return nil, err
		}
		infra.Mongo = client
		infra.closers = append(infra.closers, func() error {
			return client.Disconnect(context.Background())
		})
	}

	return infra, nil
}

// Close releases connections in reverse order of opening.
func (i *Infra) Close() error {
	var errs []error
	for n := len(i.closers) - 1; n >= 0; n-- {
		if err := i.closers[n](); err != nil {
			errs = append(errs, err)
		}
	}
	i.closers = nil
	return errors.Join(errs...)
}

// ProductIndex returns the search index, or nil when Elasticsearch is off.
func (i *Infra) ProductIndex(cfg *config.Config, log logrus.FieldLogger) *search.ProductIndex {
	if i.Elastic == nil {
		return nil
	}
	return search.NewProductIndex(i.Elastic, cfg.ESProductsIndex, log)
}

// ProductService builds the catalog service over whatever backends are up.
func (i *Infra) ProductService(cfg *config.Config, log logrus.FieldLogger) *services.ProductService {
	var index services.ProductIndex
	if x := i.ProductIndex(cfg, log); x != nil {
		index = x
	}
	var productCache services.ProductCache
	if i.Redis != nil {
		productCache = cache.NewProductCache(i.Redis, cfg.ProductCacheTTL, log)
	}
	return services.NewProductService(
		repositories.NewGORMProductRepository(i.DB),
		repositories.NewGORMCollectionRepository(i.DB),
		index, productCache, log,
	)
}

// Deps wires repositories, services and stylist clients for the API.
func (i *Infra) Deps(ctx context.Context, cfg *config.Config, log *logrus.Logger) (Deps, error) {
	users := repositories.NewGORMUserRepository(i.DB)
	products := repositories.NewGORMProductRepository(i.DB)
	orders := repositories.NewGORMOrderRepository(i.DB)

	var outfits repositories.OutfitRepository = repositories.NewGORMOutfitRepository(i.DB)
	if i.Mongo != nil {
		repo, err := repositories.NewMongoOutfitRepository(ctx, i.Mongo.Database(cfg.MongoDatabase))
		if err != nil {
			return Deps{}, err
		}
		outfits = repo
	}

	var events services.OrderEventPublisher
	if i.MQ != nil {
		events = i.MQ
	}

	var gen stylist.Generator
	if cfg.GeminiAPIKey != "" {
		g, err := stylist.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.WithError(err).Warn("gemini client unavailable, recommendations will be mocked")
		} else {
			gen = g
		}
	} else {
		log.Warn("GEMINI_API_KEY not set, recommendations will be mocked")
	}
	if cfg.LookBackendURL == "" {
		log.Warn("LOOK_BACKEND_URL not set, look generation disabled")
	}

	return Deps{
		Log:         log,
		Auth:        services.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL, log),
		Accounts:    services.NewAccountService(users, outfits, log),
		Products:    i.ProductService(cfg, log),
		Carts:       services.NewCartService(repositories.NewGORMCartRepository(i.DB), products, log),
		Wishlists:   services.NewWishlistService(repositories.NewGORMWishlistRepository(i.DB), products),
		Orders:      services.NewOrderService(orders, events, log),
		Payments:    services.NewPaymentService(repositories.NewGORMPaymentRepository(i.DB)),
		Outfits:     services.NewOutfitService(outfits),
		Exports:     services.NewExportService(orders, products),
		Recommender: stylist.NewRecommender(gen, stylist.HTTPImageFetcher{Timeout: cfg.UpstreamTimeout, MaxBytes: 8 << 20}, cfg.UpstreamTimeout, log),
		Catalog:     stylist.NewCatalogRecommender(products, gen, cfg.UpstreamTimeout, log),
		Looks:       stylist.NewLookClient(cfg.LookBackendURL, cfg.UpstreamTimeout),

		Redis:           i.Redis,
		RateLimitMax:    cfg.RateLimitMax,
		RateLimitWindow: cfg.RateLimitWindow,
		AdminAPIKey:     cfg.AdminAPIKey,
	}, nil
}
