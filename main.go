package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-delivery-graphql/config"
	"food-delivery-graphql/graph"
	"food-delivery-graphql/mail"
	"food-delivery-graphql/middleware"
	"food-delivery-graphql/pubsub"
	"food-delivery-graphql/routes"
	"food-delivery-graphql/services"
	"food-delivery-graphql/token"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	config.SetupLogger(cfg)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise database")
	}

	broker, err := newBroker(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise event broker")
	}
	defer func() {
		if err := broker.Close(); err != nil {
			log.Warn().Err(err).Msg("closing event broker")
		}
	}()

	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	users := services.NewUserService(db, tokens, newMailer(cfg))
	restaurants := services.NewRestaurantService(db)
	orders := services.NewOrderService(db, broker)
	payments := services.NewPaymentService(db)

	router := routes.NewRouter(routes.Deps{
		Schema:      graph.NewSchema(graph.NewResolver(users, restaurants, orders, payments)),
		Tokens:      tokens,
		Users:       users,
		Orders:      orders,
		Subscriber:  broker,
		Limiter:     middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		CORSOrigins: cfg.CORSOrigins,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Msgf("🚀 Server running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return services.NewPromotionSweeper(payments, cfg.PromotionSweepInterval).Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return
	}
	log.Info().Msg("server stopped")
}

// newBroker picks the live-subscription broker and wraps it with any
// configured external sinks.
func newBroker(cfg *config.Config) (*pubsub.Fanout, error) {
	var primary pubsub.Broker
	switch cfg.PubSubDriver {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, err
		}
		primary = pubsub.NewRedisBroker(client)
	default:
		primary = pubsub.NewMemoryBroker(64)
	}

	var sinks []pubsub.Publisher
	for _, name := range cfg.Sinks() {
		switch name {
		case "kafka":
			sinks = append(sinks, pubsub.NewKafkaSink(pubsub.ParseBrokers(cfg.KafkaBrokers), cfg.KafkaTopic))
		case "amqp":
			sink, err := pubsub.NewAMQPSink(cfg.AMQPURL, cfg.AMQPExchange)
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, sink)
		default:
			log.Warn().Str("sink", name).Msg("ignoring unknown event sink")
		}
	}
	return pubsub.NewFanout(primary, sinks...), nil
}

func newMailer(cfg *config.Config) mail.Mailer {
	if cfg.MailgunAPIKey == "" || cfg.MailgunDomain == "" {
		log.Warn().Msg("MAILGUN_API_KEY not set; verification codes are only logged")
		return mail.LogMailer{}
	}
	return mail.NewMailgunMailer(cfg.MailgunAPIKey, cfg.MailgunDomain, cfg.MailFrom)
}
