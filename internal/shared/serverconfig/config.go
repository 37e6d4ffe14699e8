package serverconfig

import (
	"net"
	"os"
	"strconv"

	"WordDice/internal/shared/config"
)

var Conf Config

// Load 读取 cfgName（为空时向上查找 configs/conf.yml），并补齐默认值。
func Load(cfgName string, onChange ...func()) string {
	path := config.Load(cfgName, &Conf, append([]func(){applyDefaults}, onChange...)...)
	applyDefaults()
	// 环境变量优先；若未设置则回填配置中的 jwt_secret，兼容本地开发场景。
	if os.Getenv("JWT_SECRET") == "" && Conf.Security.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", Conf.Security.JWTSecret)
	}
	return path
}

// Snapshot 返回当前配置的拷贝，热更新期间读取也是一致的。
func Snapshot() Config {
	config.RLock()
	defer config.RUnlock()
	return Conf
}

func applyDefaults() {
	config.RLock()
	c := Conf
	config.RUnlock()

	Defaults(&c)

	config.Lock()
	Conf = c
	config.Unlock()
}

// Defaults 把零值字段补成默认值。
func Defaults(c *Config) {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.WS.Path == "" {
		c.WS.Path = "/ws"
	}
	if c.GRPC.Port == 0 {
		c.GRPC.Port = 9090
	}
	s := &c.Simulation
	if s.MaxRounds <= 0 {
		s.MaxRounds = 1000
	}
	if s.DefaultTrials <= 0 {
		s.DefaultTrials = 10
	}
	if s.MaxTrials <= 0 {
		s.MaxTrials = 1000
	}
	if s.MaxWords <= 0 {
		s.MaxWords = 32
	}
	if s.MaxWordLen <= 0 {
		s.MaxWordLen = 32
	}
	if s.Executor == "" {
		s.Executor = "local"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.MySQL.Charset == "" {
		c.MySQL.Charset = "utf8mb4"
	}
	if c.MongoDB.Database == "" {
		c.MongoDB.Database = "worddice"
	}
}

// Read 读取一次配置并补默认值，不修改全局 Conf，也不监听变更。CLI 使用。
func Read(cfgName string) (Config, error) {
	var c Config
	path, err := config.Resolve(cfgName)
	if err != nil {
		return c, err
	}
	if err := config.Read(path, &c); err != nil {
		return c, err
	}
	Defaults(&c)
	return c, nil
}

// HTTPAddr / GRPCAddr 组装监听地址，host 为空时监听所有网卡。
func (c Config) HTTPAddr() string { return addr(c.HTTP.Host, c.HTTP.Port) }

func (c Config) GRPCAddr() string { return addr(c.GRPC.Host, c.GRPC.Port) }

func addr(host string, port int) string {
	if host == "" {
		host = "0.0.0.0"
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
