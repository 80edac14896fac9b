// @title           Library API
// @version         1.0
// @description     图书馆库存与借阅台账服务
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/xiebiao/library/internal/bootstrap"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/pkg/logger"
)

var configFile string

func main() {
	root := &cobra.Command{
		Use:          "library",
		Short:        "图书馆库存与借阅台账服务",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径(默认config/config.yaml)")

	root.AddCommand(
		&cobra.Command{Use: "serve", Short: "启动HTTP服务", RunE: runServe},
		&cobra.Command{Use: "migrate", Short: "执行数据库迁移", RunE: runMigrate},
		newSeedCommand(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// runServe 启动服务,收到SIGINT/SIGTERM后优雅关闭
func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. 组装应用
	app, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(context.Background()); err != nil {
			log.Error("释放资源失败", "error", err)
		}
	}()

	// 2. 建表(幂等)
	if err := rdb.Migrate(app.DB); err != nil {
		return err
	}

	// 3. 启动HTTP服务
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("服务启动", "addr", srv.Addr, "mode", cfg.Server.Mode, "database", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// 4. 等待退出信号
	select {
	case err := <-errCh:
		return fmt.Errorf("启动服务失败: %w", err)
	case <-ctx.Done():
	}

	log.Info("正在关闭服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("关闭服务失败: %w", err)
	}
	log.Info("服务已关闭")
	return nil
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, log, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer closeLog()

	db, err := rdb.NewDB(cfg.Database)
	if err != nil {
		return err
	}
	if err := rdb.Migrate(db); err != nil {
		return err
	}
	log.Info("数据库迁移完成", "driver", cfg.Database.Driver)
	return nil
}

func newSeedCommand() *cobra.Command {
	var userPassword, adminPassword string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "创建默认账号 user1 和 admin(已存在则跳过)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, closeLog, err := setup()
			if err != nil {
				return err
			}
			defer closeLog()

			db, err := rdb.NewDB(cfg.Database)
			if err != nil {
				return err
			}
			if err := rdb.Migrate(db); err != nil {
				return err
			}

			users := rdb.NewUserRepository(db)
			service := user.NewService(users)

			accounts := []struct {
				username string
				email    string
				password *string
				admin    bool
			}{
				{username: "user1", email: "user1@example.com", password: &userPassword},
				{username: "admin", email: "admin@example.com", password: &adminPassword, admin: true},
			}

			for _, a := range accounts {
				exists, err := users.ExistsByUsername(cmd.Context(), a.username)
				if err != nil {
					return err
				}
				if exists {
					log.Info("账号已存在,跳过", "username", a.username)
					continue
				}

				if *a.password == "" {
					if *a.password, err = readPassword(fmt.Sprintf("请输入 %s 的密码: ", a.username)); err != nil {
						return err
					}
				}

				register := service.Register
				if a.admin {
					register = service.RegisterAdmin
				}
				u, err := register(cmd.Context(), a.username, a.email, *a.password)
				if err != nil {
					return fmt.Errorf("创建账号%s失败: %w", a.username, err)
				}
				log.Info("账号已创建", "username", u.Username, "user_id", u.ID, "roles", u.Roles)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&userPassword, "user-password", "", "user1的密码(为空时交互输入)")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "admin的密码(为空时交互输入)")
	return cmd
}

// =========================================
// 辅助函数
// =========================================

// setup 加载配置并初始化全局日志
func setup() (*config.Config, *slog.Logger, func(), error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, nil, err
	}

	log, closer, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	slog.SetDefault(log)

	return cfg, log, func() { _ = closer() }, nil
}

// readPassword 无回显读取密码
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("读取密码失败: %w", err)
	}
	password := strings.TrimSpace(string(b))
	if password == "" {
		return "", errors.New("密码不能为空")
	}
	return password, nil
}
