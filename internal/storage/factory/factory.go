package factory

import (
	"context"
	"fmt"

	"WordDice/internal/shared/infrastructure/db"
	mongoinfra "WordDice/internal/shared/infrastructure/mongo"
	"WordDice/internal/shared/logs"
	"WordDice/internal/shared/serverconfig"
	"WordDice/internal/storage"
	"WordDice/internal/storage/memory"
	"WordDice/internal/storage/mongodb"
	"WordDice/internal/storage/mysql"
)

// Open 按 storage.driver 创建报告仓库；返回的 close 用于进程退出时释放连接。
func Open(ctx context.Context, cfg serverconfig.Config) (storage.ReportRepository, func(), error) {
	switch cfg.Storage.Driver {
	case "", storage.DriverMemory:
		return memory.NewReportRepository(), func() {}, nil

	case storage.DriverMySQL:
		gdb, err := db.Open(cfg.MySQL)
		if err != nil {
			return nil, nil, storage.ErrUnavailable.WithData("driver", storage.DriverMySQL).WithCause(err)
		}
		repo := mysql.NewReportRepository(gdb)
		if err := repo.Migrate(ctx); err != nil {
			_ = db.Close(gdb)
			return nil, nil, err
		}
		return repo, func() { _ = db.Close(gdb) }, nil

	case storage.DriverMongoDB:
		database, disconnect, err := mongoinfra.Open(ctx, cfg.MongoDB, logs.Logger())
		if err != nil {
			return nil, nil, storage.ErrUnavailable.WithData("driver", storage.DriverMongoDB).WithCause(err)
		}
		repo := mongodb.NewReportRepository(database)
		if err := repo.EnsureIndexes(ctx); err != nil {
			disconnect()
			return nil, nil, err
		}
		return repo, disconnect, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
