package web

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"codepay/db/db"
)

func CorsConfig() cors.Config {
	corsConf := cors.DefaultConfig()
	corsConf.AllowAllOrigins = true
	corsConf.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConf.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"}
	corsConf.AllowCredentials = true
	corsConf.MaxAge = time.Hour
	return corsConf
}

const defaultRateLimit = "1000-H"

// limiterMiddleWare limits requests per client IP. CODEPAY_RATE_LIMIT takes
// the limiter format, e.g. 100-M for 100 requests per minute.
func limiterMiddleWare() gin.HandlerFunc {
	formatted := os.Getenv("CODEPAY_RATE_LIMIT")
	if formatted == "" {
		formatted = defaultRateLimit
	}
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		log.Printf("Invalid CODEPAY_RATE_LIMIT %q, using %s: %v", formatted, defaultRateLimit, err)
		rate, _ = limiter.NewRateFromFormatted(defaultRateLimit)
	}
	instance := limiter.New(memory.NewStore(), rate)
	return mgin.NewMiddleware(instance)
}

// WalletDataLoaderInjectionMiddleware gives every request its own loader so
// batching never leaks data across requests.
func WalletDataLoaderInjectionMiddleware(wrapper db.WalletDBWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(db.DataLoaderKeyWalletData), db.NewWalletDataLoader(wrapper))
		c.Next()
	}
}

func setupMiddlewares(r *gin.Engine, svc *Service, isDev bool) {
	if !isDev {
		r.Use(limiterMiddleWare())
	}
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(svc.metrics.Middleware())
	r.Use(cors.New(CorsConfig()))
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/metrics"}),
		gzip.WithExcludedPathsRegexs([]string{`^/wallets/[^/]+/events$`}),
	))
	r.Use(secure.New(secure.Config{
		STSSeconds:           31536000, // 1 year
		STSIncludeSubdomains: true,
		FrameDeny:            true,
		ContentTypeNosniff:   true,
		BrowserXssFilter:     true,
		IsDevelopment:        isDev,
		ReferrerPolicy:       "strict-origin-when-cross-origin",
	}))
	r.Use(WalletDataLoaderInjectionMiddleware(svc.db))
}
