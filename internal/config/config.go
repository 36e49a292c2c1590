package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
)

type Config struct {
	AppPort string
	AppEnv  string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	IdempTTLSecs      int
	StatsCacheTTLSecs int

	JWTSecret string

	OverdueSweepInterval time.Duration
	OverdueSweepBatch    int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		AppEnv:    getenv("APP_ENV", "development"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "digilib"),
		MySQLUser: getenv("MYSQL_USER", "digilib"),
		MySQLPass: getenv("MYSQL_PASS", "digilib"),

		RedisAddr:     getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getenvInt("REDIS_DB", 0),

		IdempTTLSecs:      getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),
		StatsCacheTTLSecs: getenvInt("STATS_CACHE_TTL_SECONDS", 60),

		JWTSecret: os.Getenv("JWT_SECRET"),

		OverdueSweepInterval: time.Hour,
		OverdueSweepBatch:    getenvInt("OVERDUE_SWEEP_BATCH", 200),
	}
	if v := os.Getenv("OVERDUE_SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.OverdueSweepInterval = d
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	if c.OverdueSweepInterval < 0 {
		return fmt.Errorf("invalid OVERDUE_SWEEP_INTERVAL %s", c.OverdueSweepInterval)
	}
	return nil
}

// Production disables verbose SQL logging.
func (c *Config) Production() bool { return c.AppEnv == "production" }

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) StatsCacheTTL() time.Duration {
	return time.Duration(c.StatsCacheTTLSecs) * time.Second
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	mc := mysqldriver.NewConfig()
	mc.User = c.MySQLUser
	mc.Passwd = c.MySQLPass
	mc.Net = "tcp"
	mc.Addr = c.mysqlAddr()
	mc.DBName = c.MySQLDB
	// multiStatements is handy for migrations; parseTime needed for DATETIME
	mc.MultiStatements = true
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}
