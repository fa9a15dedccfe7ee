package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/bikawo/bikawo-booking-service/internal/api/handlers/cancel_booking"
	getBookingHandler "github.com/bikawo/bikawo-booking-service/internal/api/handlers/get_booking"
	getProviderBookingsHandler "github.com/bikawo/bikawo-booking-service/internal/api/handlers/get_provider_bookings"
	getRefundPolicyHandler "github.com/bikawo/bikawo-booking-service/internal/api/handlers/get_refund_policy"
	getUserBookingsHandler "github.com/bikawo/bikawo-booking-service/internal/api/handlers/get_user_bookings"
	listReconciliationHandler "github.com/bikawo/bikawo-booking-service/internal/api/handlers/list_reconciliation"
	listRefundPoliciesHandler "github.com/bikawo/bikawo-booking-service/internal/api/handlers/list_refund_policies"
	quoteRefundHandler "github.com/bikawo/bikawo-booking-service/internal/api/handlers/quote_refund"
	updateBookingStatusHandler "github.com/bikawo/bikawo-booking-service/internal/api/handlers/update_booking_status"
	updateRefundPolicyHandler "github.com/bikawo/bikawo-booking-service/internal/api/handlers/update_refund_policy"
	"github.com/bikawo/bikawo-booking-service/internal/api/middleware"
	"github.com/bikawo/bikawo-booking-service/internal/config"
	"github.com/bikawo/bikawo-booking-service/internal/domain"
	"github.com/bikawo/bikawo-booking-service/internal/infra/cache/idempotency"
	bookingRepo "github.com/bikawo/bikawo-booking-service/internal/infra/storage/booking"
	paymentRepo "github.com/bikawo/bikawo-booking-service/internal/infra/storage/payment"
	policyRepo "github.com/bikawo/bikawo-booking-service/internal/infra/storage/policy"
	"github.com/bikawo/bikawo-booking-service/internal/integrations/notifier"
	"github.com/bikawo/bikawo-booking-service/internal/integrations/profiles"
	"github.com/bikawo/bikawo-booking-service/internal/integrations/stripegateway"
	bookingsService "github.com/bikawo/bikawo-booking-service/internal/service/bookings"
	policiesService "github.com/bikawo/bikawo-booking-service/internal/service/policies"
	"github.com/bikawo/bikawo-booking-service/internal/service/refundpolicy"
	refundsService "github.com/bikawo/bikawo-booking-service/internal/service/refunds"
	cancelBookingUC "github.com/bikawo/bikawo-booking-service/internal/usecase/cancel_booking"
	quoteRefundUC "github.com/bikawo/bikawo-booking-service/internal/usecase/quote_refund"
	"github.com/bikawo/bikawo-booking-service/pkg/dbmetrics"
	"github.com/bikawo/bikawo-booking-service/pkg/logger"
	"github.com/bikawo/bikawo-booking-service/pkg/metrics"
	"github.com/bikawo/bikawo-booking-service/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting bikawo-booking-service...")
	log.Info("Configuration loaded from config.toml")

	// Политика возврата из конфигурации и зона услуги
	configuredPolicy, err := cfg.RefundPolicy.Policy()
	if err != nil {
		log.Fatal("Invalid refund policy: %v", err)
	}
	serviceLocation, err := cfg.RefundPolicy.Location()
	if err != nil {
		log.Fatal("Invalid refund policy timezone: %v", err)
	}
	if configuredPolicy != domain.AlternateRefundPolicy {
		log.Warn("Refund policy preset=%q (%v/%v/%v) differs from the alternate table (%v/%v/%v) shown to users in some screens; stored policies override both",
			cfg.RefundPolicy.Preset,
			configuredPolicy.MoreThan24h, configuredPolicy.Between24hAnd2h, configuredPolicy.LessThan2h,
			domain.AlternateRefundPolicy.MoreThan24h, domain.AlternateRefundPolicy.Between24hAnd2h, domain.AlternateRefundPolicy.LessThan2h)
	} else {
		log.Warn("Refund policy preset=%q (%v/%v/%v) differs from the default table (%v/%v/%v); stored policies override both",
			cfg.RefundPolicy.Preset,
			configuredPolicy.MoreThan24h, configuredPolicy.Between24hAnd2h, configuredPolicy.LessThan2h,
			domain.DefaultRefundPolicy.MoreThan24h, domain.DefaultRefundPolicy.Between24hAnd2h, domain.DefaultRefundPolicy.LessThan2h)
	}
	log.Info("Service instants are interpreted in %s", serviceLocation)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Обёртка над БД (с метриками или без)
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	paymentRepository := paymentRepo.NewRepository(wrappedDB)
	policyRepository := policyRepo.NewRepository(wrappedDB)

	// Платежный шлюз
	var gateway cancelBookingUC.PaymentGateway
	if cfg.Gateway.Enabled {
		gateway = stripegateway.NewClient(stripegateway.Config{
			SecretKey:         cfg.Gateway.SecretKey,
			BaseURL:           cfg.Gateway.BaseURL,
			MaxNetworkRetries: cfg.Gateway.MaxNetworkRetries,
		}, log)
		log.Info("Stripe gateway enabled (refund timeout=%s)", cfg.Gateway.RefundTimeout())
	} else {
		gateway = stripegateway.DisabledClient{}
		log.Warn("Payment gateway is disabled: refunds will be recorded as failed and sent to operators")
	}

	// Уведомления
	var notify cancelBookingUC.Notifier
	if cfg.Notifier.Enabled {
		kafkaCfg := notifier.KafkaConfig{
			Brokers:           cfg.Notifier.Brokers,
			ClientID:          cfg.Notifier.ClientID,
			CancellationTopic: cfg.Notifier.CancellationTopic,
			AlertTopic:        cfg.Notifier.AlertTopic,
		}
		producer, err := notifier.NewSyncProducer(kafkaCfg)
		if err != nil {
			log.Fatal("Failed to create Kafka producer: %v", err)
		}
		defer producer.Close()

		notify = notifier.NewKafkaNotifier(producer, kafkaCfg, log)
		log.Info("Kafka notifier enabled (brokers=%v)", cfg.Notifier.Brokers)
	} else {
		notify = notifier.NewLogNotifier(log)
		log.Info("Kafka notifier disabled, notifications are written to the log")
	}

	// Профили получателей уведомлений (опционально)
	var profileClient cancelBookingUC.ProfileClient
	if cfg.Profiles.Enabled {
		profileClient = profiles.NewClient(
			cfg.Profiles.URL,
			cfg.Profiles.ServiceKey,
			time.Duration(cfg.Profiles.Timeout)*time.Second,
			log,
		)
		log.Info("Profiles client initialized (url=%s, timeout=%ds)", cfg.Profiles.URL, cfg.Profiles.Timeout)
	}

	// Кэш идемпотентности (опционально)
	var idempotencyStore *idempotency.Store
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is not reachable at %s: %v", cfg.Redis.Addr, err)
		}
		cancelPing()

		idempotencyStore = idempotency.NewStore(redisClient, time.Duration(cfg.Redis.IdempotencyTTL)*time.Second)
		log.Info("Idempotency cache enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.IdempotencyTTL)
	}

	// Доменные метрики
	var domainMetrics cancelBookingUC.Metrics
	if metricsCollector != nil {
		domainMetrics = metricsCollector
	}

	// Инициализируем сервисы
	engine := refundpolicy.NewEngine(serviceLocation, refundpolicy.SystemClock{})
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	policySvc := policiesService.NewService(policyRepository, txMgr, configuredPolicy, log)
	refundSvc := refundsService.NewService(paymentRepository, log)

	// Инициализируем use cases
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		paymentRepository,
		policySvc,
		engine,
		gateway,
		notify,
		profileClient,
		txMgr,
		domainMetrics,
		cancelBookingUC.Config{
			RefundTimeout: cfg.Gateway.RefundTimeout(),
			Currency:      cfg.Gateway.Currency,
		},
		log,
	)
	quoteRefundUseCase := quoteRefundUC.NewUseCase(bookingRepository, policySvc, engine, log)

	// Инициализируем handlers
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	quoteRefund := quoteRefundHandler.NewHandler(quoteRefundUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getProviderBookings := getProviderBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getRefundPolicy := getRefundPolicyHandler.NewHandler(policySvc, log)
	listRefundPolicies := listRefundPoliciesHandler.NewHandler(policySvc, log)
	updateRefundPolicy := updateRefundPolicyHandler.NewHandler(policySvc, log)
	listReconciliation := listReconciliationHandler.NewHandler(refundSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PROTECTED ROUTES (требуют Supabase JWT в Authorization)
	// ============================================================

	authenticator := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Audience, log)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(authenticator.Middleware)

	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// Отмена повторяется клиентами при обрыве связи, ответ кэшируется по Idempotency-Key
	var cancelRoute http.Handler = http.HandlerFunc(cancelBooking.Handle)
	if idempotencyStore != nil {
		cancelRoute = middleware.Idempotency(idempotencyStore, log)(cancelRoute)
	}

	// --- Бронирования ---
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/refund-quote", quoteRefund.Handle).Methods(http.MethodGet)
	protected.Handle("/bookings/{bookingId}/cancel", cancelRoute).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// История бронирований клиента
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// Бронирования исполнителя
	protected.HandleFunc("/providers/{providerId}/bookings", getProviderBookings.Handle).Methods(http.MethodGet)

	// --- Администрирование ---
	protected.Handle("/refund-policies", adminOnly(http.HandlerFunc(getRefundPolicy.Handle))).Methods(http.MethodGet)
	protected.Handle("/refund-policies", adminOnly(http.HandlerFunc(updateRefundPolicy.Handle))).Methods(http.MethodPut)
	protected.Handle("/refund-policies/all", adminOnly(http.HandlerFunc(listRefundPolicies.Handle))).Methods(http.MethodGet)
	protected.Handle("/admin/refunds/reconciliation", adminOnly(http.HandlerFunc(listReconciliation.Handle))).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
