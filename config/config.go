package config

type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

type Config struct {
	Host   string `envconfig:"HOST"`
	Port   string `envconfig:"PORT"`
	Domain string `envconfig:"DOMAIN"`
	Prefix string `envconfig:"PREFIX"`
	Mode   Mode   `envconfig:"MODE"`
	Mysql  Mysql
	Redis  Redis
	JWT    JWT
	Log    Log    `mapstructure:"Log"`
	Sentry Sentry `mapstructure:"Sentry"`
	OTel   OTel   `mapstructure:"OTel"`
}

type Mysql struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USERNAME"`
	Password string `envconfig:"PASSWORD"`
	DBName   string `envconfig:"DB_NAME"`
}

type Redis struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWT struct {
	AccessSecret string `envconfig:"ACCESS_SECRET"`
	AccessExpire int64  `envconfig:"ACCESS_EXPIRE"`
}

type Log struct {
	FilePath   string `envconfig:"LOG_FILE_PATH" mapstructure:"file_path"`     // 日志文件路径
	Level      string `envconfig:"LOG_LEVEL" mapstructure:"level"`             // 日志级别：debug, info, warn, error
	MaxSize    int    `envconfig:"LOG_MAX_SIZE" mapstructure:"max_size"`       // 日志文件最大大小（MB）
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" mapstructure:"max_backups"` // 保留的旧日志文件数
	MaxAge     int    `envconfig:"LOG_MAX_AGE" mapstructure:"max_age"`         // 日志文件保留天数
	Compress   bool   `envconfig:"LOG_COMPRESS" mapstructure:"compress"`       // 是否压缩旧日志文件
}

type Sentry struct {
	Dsn         string        `envconfig:"SENTRY_DSN" mapstructure:"dsn"`
	Environment string        `envconfig:"SENTRY_ENVIRONMENT" mapstructure:"environment"`
	SampleRate  float64       `envconfig:"SENTRY_SAMPLE_RATE" mapstructure:"sample_rate"` // 性能追踪采样率
	Tracing     SentryTracing `mapstructure:"tracing"`
}

type SentryTracing struct {
	DBSlowThresholdMs    int `envconfig:"SENTRY_DB_SLOW_MS" mapstructure:"db_slow_ms"`       // 慢查询阈值（毫秒），0 记录全部
	RedisSlowThresholdMs int `envconfig:"SENTRY_REDIS_SLOW_MS" mapstructure:"redis_slow_ms"` // 慢命令阈值（毫秒），0 记录全部
}

type OTel struct {
	Enable      bool   `envconfig:"OTEL_ENABLE" mapstructure:"enable"`
	ServiceName string `envconfig:"OTEL_SERVICE_NAME" mapstructure:"service_name"`
	AgentHost   string `envconfig:"OTEL_AGENT_HOST" mapstructure:"agent_host"`
	AgentPort   string `envconfig:"OTEL_AGENT_PORT" mapstructure:"agent_port"`
}
