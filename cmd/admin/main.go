package main

import (
	"encoding/json"
	"fmt"
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-tracker/internal/core/auth"
	"task-tracker/internal/core/config"
	"task-tracker/internal/core/database"
	"task-tracker/internal/core/logger"
	"task-tracker/internal/repo"
	"task-tracker/internal/service"
)

var configPath string

// env wires what every subcommand needs. Opening it runs no migrations.
type env struct {
	cfg      *config.Config
	log      *zap.Logger
	logClose func()
	db       *gorm.DB
}

func (e *env) close() {
	_ = database.Close(e.db)
	e.logClose()
}

func openEnv() (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, logClose := logger.FromConfig(cfg.Log)
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                log,
	})
	if err != nil {
		logClose()
		return nil, fmt.Errorf("open db: %w", err)
	}
	return &env{cfg: cfg, log: log, logClose: logClose, db: db}, nil
}

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "task-admin",
		Short:         "Operator commands for the task tracker database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $CONFIG_PATH or "+config.DefaultPath+")")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(userCmd())
	rootCmd.AddCommand(statsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users and tasks tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()
			if err := database.Migrate(cmd.Context(), e.db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			e.log.Info("migrate done", zap.String("driver", e.cfg.DB.Driver))
			return nil
		},
	}
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var in service.RegisterInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Register a user and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()
			creds := &auth.Credentials{
				Cost:       e.cfg.Auth.BcryptCost,
				TokenBytes: e.cfg.Auth.TokenBytes,
				TTL:        e.cfg.Auth.TokenTTL(),
			}
			users, err := service.NewUserService(repo.NewUserRepo(e.db), creds, e.log)
			if err != nil {
				return err
			}
			u, err := users.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"id": u.ID, "username": u.Username, "full_name": u.FullName, "created_at": u.CreatedAt,
			})
		},
	}
	create.Flags().StringVar(&in.Username, "username", "", "login name (3-50 chars)")
	create.Flags().StringVar(&in.FullName, "full-name", "", "display name")
	create.Flags().StringVar(&in.Password, "password", "", "password (6-128 chars)")
	_ = create.MarkFlagRequired("username")
	_ = create.MarkFlagRequired("full-name")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}

func statsCmd() *cobra.Command {
	var groupBy string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print task counts grouped by status, topic or assignee",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()
			a := service.NewAnalyticsService(repo.NewTaskRepo(e.db), nil, nil, 0, e.log)
			r, err := a.Aggregate(cmd.Context(), groupBy)
			if err != nil {
				return err
			}
			return printJSON(cmd, r)
		},
	}
	cmd.Flags().StringVarP(&groupBy, "group-by", "g", "status", "status | topic | assignee")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

