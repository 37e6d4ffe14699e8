package serverconfig

import (
	"time"

	"WordDice/internal/shared/config"
)

type Config struct {
	Log        config.LogConfig `yaml:"log" mapstructure:"log"`
	HTTP       HTTPServerConfig `yaml:"http" mapstructure:"http"`
	WS         WSServerConfig   `yaml:"ws" mapstructure:"ws"`
	GRPC       GRPCServerConfig `yaml:"grpc" mapstructure:"grpc"`
	Simulation SimulationConfig `yaml:"simulation" mapstructure:"simulation"`
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	Security   SecurityConfig   `yaml:"security" mapstructure:"security"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

// WSServerConfig WS 挂在 HTTP 服务上，与 /api 共用端口。
type WSServerConfig struct {
	Path       string `yaml:"path" mapstructure:"path"`
	NeedSecret bool   `yaml:"need_secret" mapstructure:"need_secret"`
}

type GRPCServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

type SimulationConfig struct {
	// RulesFile 为空时使用内置规则表
	RulesFile     string        `yaml:"rules_file" mapstructure:"rules_file"`
	MaxRounds     int           `yaml:"max_rounds" mapstructure:"max_rounds"`
	DefaultTrials int           `yaml:"default_trials" mapstructure:"default_trials"`
	MaxTrials     int           `yaml:"max_trials" mapstructure:"max_trials"`
	MaxWords      int           `yaml:"max_words" mapstructure:"max_words"`
	MaxWordLen    int           `yaml:"max_word_len" mapstructure:"max_word_len"`
	Executor      string        `yaml:"executor" mapstructure:"executor"` // local / actor
	Workers       int           `yaml:"workers" mapstructure:"workers"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"` // memory / mysql / mongodb
	NodeID int64  `yaml:"node_id" mapstructure:"node_id"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
	ShowSQL  bool   `yaml:"show_sql" mapstructure:"show_sql"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type SecurityConfig struct {
	JWTSecret    string `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	RequireToken bool   `yaml:"require_token" mapstructure:"require_token"`
}
