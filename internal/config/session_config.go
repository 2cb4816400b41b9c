package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type SessionBackend string

const (
	SessionBackendFile   SessionBackend = "file"
	SessionBackendRedis  SessionBackend = "redis"
	SessionBackendMemory SessionBackend = "memory"
)

type SessionConfig interface {
	GetSessionBackend() SessionBackend
	GetSessionFile() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisPrefix() string
}

const (
	KeySessionBackend = "session_backend"
	KeySessionFile    = "session_file"
	keyRedisAddr      = "redis_addr"
	keyRedisPassword  = "redis_password"
	keyRedisDB        = "redis_db"
	keyRedisPrefix    = "redis_prefix"
)

func setSessionDefaults(v *viper.Viper) {
	v.SetDefault(KeySessionBackend, string(SessionBackendFile))
	v.SetDefault(KeySessionFile, defaultSessionFile())
	v.SetDefault(keyRedisAddr, "localhost:6379")
	v.SetDefault(keyRedisPassword, "")
	v.SetDefault(keyRedisDB, 0)
	v.SetDefault(keyRedisPrefix, "agri:session:")
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".agri-dashboard", "session.json")
	}
	return filepath.Join(home, ".agri-dashboard", "session.json")
}

var _ SessionConfig = mainConfig{}

func (c mainConfig) GetSessionBackend() SessionBackend {
	return SessionBackend(c.v.GetString(KeySessionBackend))
}

func (c mainConfig) GetSessionFile() string {
	return c.v.GetString(KeySessionFile)
}

func (c mainConfig) GetRedisAddr() string {
	return c.v.GetString(keyRedisAddr)
}

func (c mainConfig) GetRedisPassword() string {
	return c.v.GetString(keyRedisPassword)
}

func (c mainConfig) GetRedisDB() int {
	return c.v.GetInt(keyRedisDB)
}

func (c mainConfig) GetRedisPrefix() string {
	return c.v.GetString(keyRedisPrefix)
}
