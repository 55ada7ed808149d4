package main

import (
	"context"
	"flag"
	"time"

	"memberbill/billing"
	"memberbill/config"
	"memberbill/database"
	"memberbill/handlers"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

var (
	runOnce     = flag.Bool("run-once", false, "Run one renewal batch and exit")
	renewalDate = flag.String("date", "", "Renewal batch date (YYYY-MM-DD). Defaults to now. Only used with --run-once")
)

func main() {
	flag.Parse()

	log.SetFormatter(&log.JSONFormatter{})

	cfg := config.Load()
	database.ConnectDatabase(cfg)

	engine := billing.NewEngine(database.DB, log.StandardLogger())
	engine.SetItemTimeout(time.Duration(cfg.Scheduler.ItemTimeoutSeconds) * time.Second)
	handlers.SetEngine(engine)

	// Run-once mode, for manual runs and backfills.
	if *runOnce {
		now := time.Now().UTC()
		if *renewalDate != "" {
			parsed, err := time.Parse("2006-01-02", *renewalDate)
			if err != nil {
				log.Fatalf("Invalid date format: %v", err)
			}
			now = parsed
		}
		result, err := engine.RunRenewalBatch(context.Background(), now)
		if err != nil {
			log.Fatalf("Renewal batch failed: %v", err)
		}
		log.WithFields(log.Fields{
			"advanced": result.Advanced,
			"skipped":  result.Skipped,
			"failed":   result.Failed,
		}).Info("renewal batch completed")
		return
	}

	scheduler := cron.New()
	_, err := scheduler.AddFunc(cfg.Scheduler.RenewalSchedule, func() {
		if _, err := engine.RunRenewalBatch(context.Background(), time.Now().UTC()); err != nil {
			log.Errorf("Scheduled renewal batch failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule renewal batch: %v", err)
	}
	scheduler.Start()
	log.Infof("Renewal schedule: %s", cfg.Scheduler.RenewalSchedule)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handlers.RequestLogger())

	scoped := r.Group("/")
	scoped.Use(handlers.TenantMiddleware())
	{
		scoped.POST("/plans", handlers.CreatePlan)
		scoped.GET("/plans/:id", handlers.GetPlan)
		scoped.PUT("/plans/:id", handlers.UpdatePlan)
		scoped.DELETE("/plans/:id", handlers.DeletePlan)

		scoped.POST("/groups", handlers.CreateGroup)
		scoped.POST("/members", handlers.CreateMember)
		scoped.GET("/members/:id", handlers.GetMember)
		scoped.GET("/members/:id/invoices", handlers.GetMemberInvoices)
		scoped.GET("/members/:id/transactions", handlers.GetMemberTransactions)

		scoped.POST("/enroll", handlers.Enroll)
		scoped.POST("/change_plan", handlers.ChangePlan)
		scoped.POST("/pay", handlers.PayInvoice)
		scoped.GET("/invoices/:id", handlers.GetInvoice)

		scoped.GET("/reports/member/:id", handlers.GetMemberReport)
		scoped.GET("/reports/group/:id", handlers.GetGroupReport)
		scoped.GET("/reports/period", handlers.GetPeriodReport)
	}

	// External scheduler pingers hit this instead of waiting for cron.
	r.POST("/renewals/run", handlers.RunRenewals)

	r.POST("/admin/clear_db", handlers.ClearDatabase)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	log.Fatal(r.Run(":" + cfg.Server.Port))
}
