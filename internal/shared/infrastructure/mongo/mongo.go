package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"WordDice/internal/shared/serverconfig"
)

const defaultConnectTimeout = 3 * time.Second

// Open 连接 MongoDB 并 ping 一次，返回配置中的 database 句柄和断开函数。
// ping 失败时已断开，调用方不用再 close。
func Open(ctx context.Context, cfg serverconfig.MongoDBConfig, l *zap.Logger) (*mongo.Database, func(), error) {
	if cfg.URI == "" {
		return nil, nil, errors.New("mongodb uri is empty")
	}
	if cfg.Database == "" {
		return nil, nil, errors.New("mongodb database is empty")
	}
	if l == nil {
		l = zap.NewNop()
	}

	timeout := time.Duration(cfg.ConnectTimeoutS) * time.Second
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("worddice").
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, nil, err
	}
	disconnect := func() { _ = client.Disconnect(context.Background()) }

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err = client.Ping(pingCtx, nil); err != nil {
		disconnect()
		return nil, nil, err
	}

	l.Info("open mongodb success", zap.String("database", cfg.Database))
	return client.Database(cfg.Database), disconnect, nil
}
