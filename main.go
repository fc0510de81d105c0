package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"league-portal/config"
	"league-portal/handlers"
	"league-portal/models"
	"league-portal/repository"
	"league-portal/search"
	"league-portal/services"
	"league-portal/session"
	"league-portal/utils"
	"league-portal/workers"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const uploadsDir = "./uploads"

func main() {
	createSuperuser := flag.Bool("createsuperuser", false, "create or promote a staff account and exit")
	suEmail := flag.String("email", "", "superuser email")
	suName := flag.String("name", "Admin", "superuser first name")
	suPassword := flag.String("password", "", "superuser password (min 8 characters)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := cfg.NewLogger()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		cancel()
		log.Fatalf("Failed to connect to Redis at %s: %v", cfg.RedisAddr, err)
	}
	cancel()

	users := repository.NewGormUserRepository(db)
	teams := repository.NewGormTeamRepository(db)
	players := repository.NewGormPlayerRepository(db)
	matches := repository.NewGormMatchRepository(db)
	stats := repository.NewGormStatisticRepository(db)
	standings := repository.NewGormStandingRepository(db)

	store := session.NewRedisStore(rdb, cfg.RedisKeyPrefix)

	var mailer utils.Mailer = &utils.LogMailer{Log: log}
	if cfg.SESEnabled {
		ses, err := utils.NewSESMailer(ctx, cfg.AWSRegion, cfg.MailFrom)
		if err != nil {
			log.Fatalf("Failed to initialize SES mailer: %v", err)
		}
		mailer = ses
	}

	var storage services.ObjectStorage
	servedUploads := ""
	if cfg.R2Enabled() {
		r2, err := utils.NewR2Storage(ctx, utils.R2Options{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessSecret,
			Bucket:          cfg.R2Bucket,
			CDNBaseURL:      cfg.CDNBaseURL,
		})
		if err != nil {
			log.Fatalf("Failed to initialize R2 client: %v", err)
		}
		storage = r2
	} else {
		local, err := utils.NewLocalStorage(uploadsDir, "/uploads")
		if err != nil {
			log.Fatalf("Failed to ensure upload dir: %v", err)
		}
		storage = local
		servedUploads = uploadsDir
	}

	otp := services.NewOTPService(store, mailer, cfg.OTPLength, cfg.OTPTTL, log)
	auth := services.NewAuthService(users, otp, store, services.AuthOptions{
		SessionTTL:  cfg.SessionTTL,
		RequireOTP:  cfg.LoginRequireOTP,
		PhoneRegion: cfg.DefaultPhoneRegion,
	}, log)

	if *createSuperuser {
		user, err := auth.CreateSuperuser(ctx, *suEmail, *suName, *suPassword)
		if err != nil {
			log.Fatalf("Failed to create superuser: %v", err)
		}
		log.WithField("email", user.Email).Info("Superuser ready")
		return
	}

	searchService := services.NewSearchService(search.NewRedisIndex(rdb, cfg.RedisKeyPrefix), teams, players, log)
	league := services.NewLeagueService(teams, players, matches, stats, standings, log)
	admin := services.NewAdminService(teams, players, matches, stats, searchService, storage, log)

	sched, err := searchService.StartReindexScheduler(cfg.ReindexInterval)
	if err != nil {
		log.Fatalf("Failed to start reindex scheduler: %v", err)
	}
	go workers.PollStandings(ctx, league, cfg.StandingsInterval, log)

	app := handlers.NewApp(cfg, handlers.Services{
		Auth:   auth,
		League: league,
		Search: searchService,
		Admin:  admin,
	}, servedUploads, log)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorf("Server error: %v", err)
			stop()
		}
	}()

	log.WithFields(logrus.Fields{
		"port":        cfg.Port,
		"require_otp": cfg.LoginRequireOTP,
		"r2":          cfg.R2Enabled(),
		"ses":         cfg.SESEnabled,
	}).Info("Server running")

	<-ctx.Done()
	log.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Warnf("Server shutdown: %v", err)
	}
	if err := sched.Shutdown(); err != nil {
		log.Warnf("Scheduler shutdown: %v", err)
	}
}
