package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Cookie        CookieConfig        `mapstructure:"cookie"`
	Upload        UploadConfig        `mapstructure:"upload"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Log           LogConfig           `mapstructure:"log"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Mode    string `mapstructure:"mode"`
	Port    int    `mapstructure:"port"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
}

// DSN 返回PostgreSQL连接字符串
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// Addr 返回Redis地址
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MinIOConfig 媒体存储配置
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	// Bucket 所有媒体对象共用一个公开读的桶，按前缀区分类型
	Bucket string `mapstructure:"bucket"`
	// PublicBaseURL 对外访问地址，为空时根据 Endpoint 拼接
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	Brokers []string          `mapstructure:"brokers"`
	Topics  map[string]string `mapstructure:"topics"`
	GroupID string            `mapstructure:"group_id"`
}

// Topic 返回逻辑名对应的 topic，未配置时使用逻辑名本身
func (k *KafkaConfig) Topic(name string) string {
	if t, ok := k.Topics[name]; ok && t != "" {
		return t
	}
	return name
}

// ElasticsearchConfig Elasticsearch配置
type ElasticsearchConfig struct {
	Hosts []string          `mapstructure:"hosts"`
	Index map[string]string `mapstructure:"index"`
}

// JWTConfig 访问令牌与刷新令牌使用独立的密钥和有效期
type JWTConfig struct {
	AccessSecret         string `mapstructure:"access_secret"`
	AccessExpireMinutes  int    `mapstructure:"access_expire_minutes"`
	RefreshSecret        string `mapstructure:"refresh_secret"`
	RefreshExpireHours   int    `mapstructure:"refresh_expire_hours"`
}

// AccessExpireDuration 访问令牌有效期
func (j *JWTConfig) AccessExpireDuration() time.Duration {
	return time.Duration(j.AccessExpireMinutes) * time.Minute
}

// RefreshExpireDuration 刷新令牌有效期
func (j *JWTConfig) RefreshExpireDuration() time.Duration {
	return time.Duration(j.RefreshExpireHours) * time.Hour
}

// CookieConfig 会话 Cookie 配置
type CookieConfig struct {
	Domain string `mapstructure:"domain"`
	Secure bool   `mapstructure:"secure"`
}

// UploadConfig 上传配置
type UploadConfig struct {
	TempDir        string `mapstructure:"temp_dir"`
	MaxVideoSizeMB int64  `mapstructure:"max_video_size_mb"`
	MaxImageSizeMB int64  `mapstructure:"max_image_size_mb"`
}

// RateLimitConfig 认证接口限流配置
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	DashboardStatsTTL int `mapstructure:"dashboard_stats_ttl"` // 秒
}

// DashboardStatsTTLDuration 返回统计缓存有效期
func (c *CacheConfig) DashboardStatsTTLDuration() time.Duration {
	return time.Duration(c.DashboardStatsTTL) * time.Second
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// 全局配置实例
var globalConfig *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "vidtube")
	v.SetDefault("app.mode", "debug")
	v.SetDefault("app.port", 8000)
	v.SetDefault("jwt.access_expire_minutes", 60)
	v.SetDefault("jwt.refresh_expire_hours", 240)
	v.SetDefault("cookie.secure", true)
	v.SetDefault("upload.temp_dir", "./tmp/uploads")
	v.SetDefault("upload.max_video_size_mb", 500)
	v.SetDefault("upload.max_image_size_mb", 10)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 5)
	v.SetDefault("rate_limit.burst", 10)
	v.SetDefault("cache.dashboard_stats_ttl", 60)
	v.SetDefault("minio.bucket", "vidtube-media")
	v.SetDefault("kafka.group_id", "vidtube-api")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
}

// Load 加载配置文件，.env 中的变量会先注入进程环境
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// JWT_ACCESS_SECRET 覆盖 jwt.access_secret
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.JWT.AccessSecret == "" || cfg.JWT.RefreshSecret == "" {
		return nil, errors.New("jwt.access_secret and jwt.refresh_secret are required")
	}

	globalConfig = &cfg

	return &cfg, nil
}

// Get 获取全局配置
func Get() *Config {
	if globalConfig == nil {
		panic("config not loaded, please call Load() first")
	}
	return globalConfig
}

// GetApp 获取应用配置
func GetApp() *AppConfig {
	return &Get().App
}

// GetKafka 获取Kafka配置
func GetKafka() *KafkaConfig {
	return &Get().Kafka
}

// GetJWT 获取JWT配置
func GetJWT() *JWTConfig {
	return &Get().JWT
}
