package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // Europe/Paris on scratch images

	"github.com/joho/godotenv"

	"github.com/xavierca1/prospection-crm/internal/config"
	"github.com/xavierca1/prospection-crm/internal/infra/blob/s3"
	"github.com/xavierca1/prospection-crm/internal/infra/database"
	"github.com/xavierca1/prospection-crm/internal/infra/http/handlers"
	metrics "github.com/xavierca1/prospection-crm/internal/infra/http/middleware"
	"github.com/xavierca1/prospection-crm/internal/infra/integration/googlecalendar"
	"github.com/xavierca1/prospection-crm/internal/infra/integration/outlook"
	"github.com/xavierca1/prospection-crm/internal/infra/integration/supabase"
	"github.com/xavierca1/prospection-crm/internal/infra/mail"
	"github.com/xavierca1/prospection-crm/internal/infra/memstore"
	"github.com/xavierca1/prospection-crm/internal/infra/persistence/sqlite"
	"github.com/xavierca1/prospection-crm/internal/infra/queue"
	"github.com/xavierca1/prospection-crm/internal/infra/spreadsheet"
	"github.com/xavierca1/prospection-crm/internal/infra/worker"
	"github.com/xavierca1/prospection-crm/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️ Aucun fichier .env, lecture des variables d'environnement")
	}
	cfg := config.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Remote store
	var (
		db     *sql.DB
		remote usecase.RemoteStore
	)
	switch cfg.StoreBackend {
	case config.BackendSupabase:
		if cfg.SupabaseURL == "" || cfg.SupabaseAnonKey == "" {
			log.Fatal("❌ SUPABASE_URL et SUPABASE_ANON_KEY sont requis")
		}
		remote = supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	case config.BackendSQLite:
		sqliteStore, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("❌ Ouverture SQLite impossible: %v", err)
		}
		defer sqliteStore.Close()
		db = sqliteStore.DB()
		remote = sqliteStore
		log.Printf("💾 Stockage SQLite: %s", sqliteStore.Path())
	case config.BackendMemory:
		log.Println("⚠️ Stockage en mémoire: les données seront perdues à l'arrêt")
		remote = memstore.New()
	default:
		var err error
		db, err = database.NewDBConnection(cfg.DBDriver, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ Connexion Postgres impossible: %v", err)
		}
		defer db.Close()
		remote = database.NewProspectRepository(db)
	}

	// 2. Events: metrics always, RabbitMQ when configured
	publishers := usecase.MultiPublisher{metrics.NewMetricsRecorder()}

	var broker handlers.BrokerChecker
	if cfg.QueueEnabled() {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitUser, cfg.RabbitPass, cfg.RabbitHost, cfg.RabbitPort)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		defer rabbitMQ.Close()
		broker = rabbitMQ
		publishers = append(publishers, queue.NewProducer(rabbitMQ.Ch))

		if cfg.MailEnabled() {
			notifier := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom, cfg.NotifyEmail)
			consumer := queue.NewWorker(rabbitMQ.Ch, notifier)
			go func() {
				if err := consumer.Start(ctx, queue.QueueName); err != nil {
					log.Printf("❌ [WORKER] %v", err)
				}
			}()
		} else {
			log.Println("⚠️ MAIL_HOST/NOTIFY_EMAIL absents, notifications désactivées")
		}
	}

	// 3. Core
	store := usecase.NewProspectStore(remote, publishers)
	store.Initialize(ctx)
	kanban := usecase.NewKanbanController(store)
	go worker.NewStatsWorker(store).Start(ctx)

	// 4. UseCases
	codec := spreadsheet.NewExcelCodec()
	exportUC := usecase.NewExportProspectsUseCase(store, codec)
	importUC := usecase.NewImportProspectsUseCase(store, codec)
	scheduleUC := usecase.NewScheduleMeetingUseCase(map[string]usecase.CalendarProvider{
		"google":  googlecalendar.NewClient(cfg.CalendarTimeZone),
		"outlook": outlook.NewClient(cfg.CalendarTimeZone),
	}, store)

	dataHandler := handlers.NewDataHandler(exportUC, importUC, cfg.MaxImportBytes)
	if cfg.ArchiveEnabled() {
		archive, err := s3.New(ctx, s3.Config{
			Bucket:    cfg.ExportS3Bucket,
			Region:    cfg.ExportS3Region,
			Endpoint:  cfg.ExportS3Endpoint,
			PathStyle: cfg.ExportS3PathStyle,
		})
		if err != nil {
			log.Fatalf("❌ Archive S3: %v", err)
		}
		dataHandler.Archive = archive
		log.Printf("🗄️ Exports archivés dans s3://%s", cfg.ExportS3Bucket)
	}

	// 5. Router
	router := newRouter(cfg, routes{
		Prospects:  handlers.NewProspectHandler(store),
		Kanban:     handlers.NewKanbanHandler(store, kanban),
		Validation: handlers.NewValidationHandler(),
		Data:       dataHandler,
		Calendar:   handlers.NewCalendarHandler(scheduleUC),
		Health:     handlers.NewHealthHandler(db, broker, store),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("🔥 Serveur prospection démarré sur le port %s (store: %s)", cfg.Port, cfg.StoreBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
