package config

import (
	"fmt"
	"os/user"
	"strings"
	"time"

	"github.com/stevenroose/gonfig"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Params is the router configuration, read from flags and ROUTER_* environment variables.
type Params struct {
	Port           int    `id:"port" short:"p" default:"8080" desc:"Main port used for routed traffic"`
	AdminPort      int    `id:"admin-port" default:"7676" desc:"Admin port used for configuration and monitoring"`
	AppEnv         string `id:"app-env" default:"development" desc:"development or production"`
	DBDriver       string `id:"db-driver" default:"sqlite" desc:"Optional values: sqlite, postgres"`
	DBDSN          string `id:"db-dsn" default:"data/db.sqlite" desc:"SQLite file path or Postgres DSN"`
	CacheBackend   string `id:"cache-backend" default:"memory" desc:"Optional values: memory, redis"`
	RedisAddr      string `id:"redis-addr" default:"localhost:6379"`
	RedisPassword  string `id:"redis-password"`
	DiscoveryTTL   int    `id:"discovery-ttl" default:"30" desc:"Seconds to cache discovered hosts"`
	DockerSockets  string `id:"docker-sockets" default:"unix:///var/run/docker.sock,unix:///var/run/user/{userID}/docker.sock,unix:///var/run/podman/podman.sock,unix:///var/run/user/{userID}/podman/podman.sock" desc:"Comma separated docker/podman hosts"`
	RateLimit      int    `id:"rate-limit" default:"10" desc:"Admin API requests per second per client"`
	RateBurst      int    `id:"rate-burst" default:"20"`
	ProxyTimeout   int    `id:"proxy-timeout" default:"30" desc:"Seconds to wait for a proxied upstream"`
	AllowedOrigins string `id:"allowed-origins" default:"http://localhost:7676" desc:"Comma separated CORS origins for the admin API"`
}

// Load reads Params from command line flags and the environment.
func Load() (*Params, error) {
	return load(gonfig.Conf{
		FileDisable:       true,
		FlagIgnoreUnknown: false,
		EnvPrefix:         "ROUTER_",
	})
}

func load(conf gonfig.Conf) (*Params, error) {
	var params Params
	if err := gonfig.Load(&params, conf); err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &params, nil
}

// Validate rejects values the servers cannot start with.
func (p *Params) Validate() error {
	if p.Port <= 0 || p.Port > 65535 {
		return fmt.Errorf("invalid port %d", p.Port)
	}
	if p.AdminPort <= 0 || p.AdminPort > 65535 {
		return fmt.Errorf("invalid admin port %d", p.AdminPort)
	}
	if p.Port == p.AdminPort {
		return fmt.Errorf("port and admin port must differ, both are %d", p.Port)
	}

	switch p.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown db driver %q", p.DBDriver)
	}

	switch p.CacheBackend {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unknown cache backend %q", p.CacheBackend)
	}

	if p.DiscoveryTTL <= 0 {
		return fmt.Errorf("discovery ttl must be positive, got %d", p.DiscoveryTTL)
	}

	if p.RateLimit <= 0 || p.RateBurst <= 0 {
		return fmt.Errorf("rate limit and burst must be positive")
	}
	return nil
}

func (p *Params) DiscoveryTTLDuration() time.Duration {
	return time.Duration(p.DiscoveryTTL) * time.Second
}

func (p *Params) ProxyTimeoutDuration() time.Duration {
	return time.Duration(p.ProxyTimeout) * time.Second
}

// Sockets returns the docker/podman hosts with {userID} replaced by the current user id.
func (p *Params) Sockets() []string {
	uid := ""
	if u, err := user.Current(); err == nil {
		uid = u.Uid
	}
	return expandSockets(p.DockerSockets, uid)
}

func expandSockets(raw string, uid string) []string {
	var hosts []string
	for _, host := range splitList(raw) {
		if strings.Contains(host, "{userID}") {
			if uid == "" {
				continue
			}
			host = strings.ReplaceAll(host, "{userID}", uid)
		}
		hosts = append(hosts, host)
	}
	return hosts
}

func (p *Params) Origins() []string {
	return splitList(p.AllowedOrigins)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
