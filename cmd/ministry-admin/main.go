package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"

	"github.com/kidsministry/backend/internal/audit"
	"github.com/kidsministry/backend/internal/config"
	"github.com/kidsministry/backend/internal/database"
	"github.com/kidsministry/backend/internal/pkg/logger"
	"github.com/kidsministry/backend/internal/services"
)

func main() {
	configErr := config.Load()

	log, err := logger.New(viper.GetString("log.mode"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	if configErr != nil {
		log.Debug("Config file not found, using environment and defaults", "error", configErr)
	}

	ledgerCfg, err := config.LoadLedgerConfig()
	if err != nil {
		log.Fatal("Invalid ledger configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	defer func() {
		if db != nil {
			db.Close()
		}
	}()

	cli := &commandLine{
		out:       os.Stdout,
		loc:       ledgerCfg.Location,
		jwtSecret: viper.GetString("jwt.secret_key"),
		attendance: func() (attendanceAwarder, error) {
			conn, err := database.InitDB(database.GetConfig(), log)
			if err != nil {
				return nil, err
			}
			db = conn
			ledger := services.NewLedgerService(db, ledgerCfg, audit.NewAuditLogger(log), log)
			return services.NewAttendanceService(ledger, log), nil
		},
	}

	if err := cli.run(ctx, os.Args); err != nil {
		if errors.Is(err, errHelp) {
			os.Exit(2)
		}
		log.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
