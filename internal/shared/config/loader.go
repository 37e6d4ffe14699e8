package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const envPrefix = "WORDDICE"

// mu 保护热更新时对 out 的整体写入；读取方通过各自的快照函数加读锁。
var mu sync.RWMutex

// RLock / RUnlock 给持有配置指针的包在读取时使用，Lock / Unlock 用于补默认值。
func RLock()   { mu.RLock() }
func RUnlock() { mu.RUnlock() }
func Lock()    { mu.Lock() }
func Unlock()  { mu.Unlock() }

func load(configPath string, out any, watch bool, onChange ...func()) error {
	if !fileExist(configPath) {
		return fmt.Errorf("config file not exist, configPath=%v", configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	// WORDDICE_HTTP_PORT 覆盖 http.port
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return err
	}
	if err := decode(v, out); err != nil {
		return err
	}

	if watch {
		v.OnConfigChange(func(e fsnotify.Event) {
			if err := decode(v, out); err != nil {
				fmt.Fprintf(os.Stderr, "config reload failed, file=%s err=%v\n", e.Name, err)
				return
			}
			for _, fn := range onChange {
				fn()
			}
		})
		v.WatchConfig()
	}
	return nil
}

func decode(v *viper.Viper, out any) error {
	mu.Lock()
	defer mu.Unlock()
	return v.Unmarshal(out, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
