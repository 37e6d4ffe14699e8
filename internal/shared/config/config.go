package config

import (
	"os"
	"path/filepath"
)

const defaultConfigRelPath = "configs/conf.yml"

// LogConfig 是 logs.Init 使用的日志配置，各服务配置里共用。
type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

// Load 读取配置到 out，并监听文件变更；读取失败直接 panic（启动期错误）。
//
// 约定：
//  1. 传入 cfgName（相对/绝对路径）则优先使用；
//  2. 否则从当前目录开始向上查找 `configs/conf.yml`。
//
// onChange 在热更新成功解码后调用，调用方自行决定哪些字段可以在线生效。
func Load(cfgName string, out any, onChange ...func()) string {
	path, err := Resolve(cfgName)
	if err != nil {
		panic(err)
	}
	if err := load(path, out, true, onChange...); err != nil {
		panic(err)
	}
	return path
}

// Read 只读一次，不监听变更；给 CLI 和测试使用。
func Read(path string, out any) error {
	return load(path, out, false)
}

// Resolve 把配置名解析成绝对路径。
func Resolve(cfgName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if cfgName != "" {
		if filepath.IsAbs(cfgName) {
			return cfgName, nil
		}
		return filepath.Join(curDir, cfgName), nil
	}
	return findConfigUpward(curDir)
}

func findConfigUpward(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, defaultConfigRelPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &NotFoundError{StartDir: startDir}
		}
		dir = parent
	}
}

type NotFoundError struct {
	StartDir string
}

func (e *NotFoundError) Error() string {
	return "config file not exist, searched " + defaultConfigRelPath + " from: " + e.StartDir
}
