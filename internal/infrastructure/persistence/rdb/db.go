package rdb

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明:
// 1. 使用GORM v2作为ORM框架,按database.driver选择方言(mysql/postgres/sqlite)
// 2. 配置连接池参数(MaxOpenConns、MaxIdleConns、ConnMaxLifetime)
// 3. TranslateError把各驱动的唯一索引冲突统一转换为gorm.ErrDuplicatedKey
func NewDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(parseLogLevel(cfg.LogLevel)),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		// SQLite同一时刻只允许一个写事务,单连接让事务排队而不是返回SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	slog.Info("✓ 数据库连接成功", "driver", cfg.Driver)
	return db, nil
}

// Migrate 自动迁移表结构并初始化角色
// AutoMigrate只会创建表、添加字段和索引,不会删除或修改现有字段
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&RoleModel{},
		&UserModel{},
		&CategoryModel{},
		&BookModel{},
		&TransactionModel{},
	); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	for _, name := range []user.Role{user.RoleUser, user.RoleAdmin} {
		if err := db.Where(RoleModel{Name: string(name)}).FirstOrCreate(&RoleModel{}).Error; err != nil {
			return fmt.Errorf("初始化角色失败: %w", err)
		}
	}
	return nil
}

func openDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "info":
		return logger.Info
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		return logger.Warn
	}
}
