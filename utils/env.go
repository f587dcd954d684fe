package utils

import (
	"fmt"
	"strings"
	"time"

	"foodgram-backend/structs"

	"github.com/spf13/viper"
)

var EnvConfig *structs.EnvironmentModel

type EnvService struct{}

func (e *EnvService) InitEnv() {
	e.setDefaults()
	e.loadConfig()
	e.configToModel()
}

func (e *EnvService) setDefaults() {
	viper.SetDefault("database.client", "postgres")
	viper.SetDefault("database.host", "db")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.name", "foodgram")
	viper.SetDefault("database.max_idle", 5)
	viper.SetDefault("database.max_open_conn", 20)
	viper.SetDefault("database.max_life_time", "5m")
	viper.SetDefault("router.port", 8000)
	viper.SetDefault("auth.token_ttl", "720h")
	viper.SetDefault("media.root", "/media")
	viper.SetDefault("media.url", "/media/")
	viper.SetDefault("shopping_list.locale", "ru")
	viper.SetDefault("pagination.limit", 10)
}

func (e *EnvService) loadConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// no config.yml, fall back to the environment (DATABASE_HOST etc.)
			viper.AutomaticEnv()
			viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		} else {
			panic(fmt.Errorf("Fatal error config file: %s \n", err))
		}
	}
}

func (e *EnvService) configToModel() {
	var config structs.EnvironmentModel
	config.Database.Client = viper.GetString("database.client")
	config.Database.Host = viper.GetString("database.host")
	config.Database.User = viper.GetString("database.user")
	config.Database.Password = viper.GetString("database.password")
	config.Database.Db = viper.GetString("database.name")
	config.Database.MaxIdle = uint(viper.GetInt("database.max_idle"))
	config.Database.MaxOpenConn = uint(viper.GetInt("database.max_open_conn"))
	config.Database.MaxLifeTime = viper.GetString("database.max_life_time")
	config.Database.Params = viper.GetString("database.params")
	config.Database.Port = viper.GetString("database.port")
	config.Database.LogEnable = viper.GetInt("database.log_enable")
	config.RabbitMQ.Domain = viper.GetString("rabbitmq.domain")
	config.Log.ElkEnable = viper.GetInt("log.elk.enable")
	config.Log.ElkIndex = viper.GetString("log.elk.index")
	config.Log.ElkURL = viper.GetString("log.elk.url")
	config.Log.LogstashEnable = viper.GetInt("log.logstash.enable")
	config.Log.LogstashURL = viper.GetString("log.logstash.url")
	config.Log.LogstashIndex = viper.GetString("log.logstash.index")
	config.Server.AppAPI = viper.GetString("server.app_api")
	config.Server.BaseURL = viper.GetString("server.base_url")
	config.Router.Port = viper.GetInt("router.port")
	config.Auth.Secret = viper.GetString("auth.secret")
	config.Auth.TokenTTL = viper.GetString("auth.token_ttl")
	config.Media.Root = viper.GetString("media.root")
	config.Media.URL = viper.GetString("media.url")
	config.ShoppingList.Locale = viper.GetString("shopping_list.locale")
	config.Pagination.Limit = viper.GetInt("pagination.limit")
	EnvConfig = &config
}

// TokenTTL parses auth.token_ttl, falling back to 30 days.
func TokenTTL() time.Duration {
	if EnvConfig != nil {
		if d, err := time.ParseDuration(EnvConfig.Auth.TokenTTL); err == nil && d > 0 {
			return d
		}
	}
	return 30 * 24 * time.Hour
}
