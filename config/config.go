// Package config loads the immutable service configuration.
//
// Values are read once at startup from, in increasing precedence: built-in
// defaults, an optional config file, RPC_SERVICE_* environment variables
// (a .env file in the working directory is loaded first) and command-line
// flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. RPC_SERVICE_PORT.
const EnvPrefix = "RPC_SERVICE"

const (
	KeyIP           = "ip"
	KeyPort         = "port"
	KeyLogging      = "logging"
	KeyWorkers      = "workers"
	KeyMaxBodyBytes = "max_body_bytes"
	KeyAreaCodes    = "area_codes"
	KeyGzip         = "gzip"
)

// Defaults holds the built-in value of every key.
var Defaults = map[string]any{
	KeyIP:           "0.0.0.0",
	KeyPort:         80,
	KeyLogging:      "info",
	KeyWorkers:      1,
	KeyMaxBodyBytes: 1 << 20,
	KeyAreaCodes:    []int{982, 986, 912, 934},
	KeyGzip:         true,
}

var ErrInvalidWorkers = errors.New("workers must be a positive integer")

// Config is the process-wide configuration. It is built once by Load and
// passed by value; nothing mutates it afterwards.
type Config struct {
	IP           string
	Port         uint16
	Logging      string
	Workers      int
	MaxBodyBytes int64
	AreaCodes    []int
	Gzip         bool
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.IP, strconv.Itoa(int(c.Port)))
}

// BackendURL returns the service URL for scheme, e.g. "http://0.0.0.0:80".
func (c Config) BackendURL(scheme string) string {
	return scheme + "://" + c.Addr()
}

// Load reads the configuration. path names an optional config file (any
// format viper understands); flags, when non-nil, are bound to the keys of the
// same name with dashes in place of underscores.
//
// Malformed numeric values and a non-positive worker count are errors.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, val := range Defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for key := range Defaults {
			if f := flags.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, err
				}
			}
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		IP:      v.GetString(KeyIP),
		Logging: strings.ToLower(v.GetString(KeyLogging)),
	}

	port, err := cast.ToIntE(v.Get(KeyPort))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyPort, err)
	}
	if port < 0 || port > 65535 {
		return Config{}, fmt.Errorf("%s=%d: out of range", KeyPort, port)
	}
	cfg.Port = uint16(port)

	if cfg.Workers, err = cast.ToIntE(v.Get(KeyWorkers)); err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyWorkers, err)
	}
	if cfg.Workers <= 0 {
		return Config{}, fmt.Errorf("%s=%d: %w", KeyWorkers, cfg.Workers, ErrInvalidWorkers)
	}
	if cfg.MaxBodyBytes, err = cast.ToInt64E(v.Get(KeyMaxBodyBytes)); err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyMaxBodyBytes, err)
	}
	if cfg.AreaCodes, err = areaCodes(v.Get(KeyAreaCodes)); err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyAreaCodes, err)
	}
	if cfg.Gzip, err = cast.ToBoolE(v.Get(KeyGzip)); err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyGzip, err)
	}
	return cfg, nil
}

// areaCodes accepts a list or a comma separated string ("982,986").
func areaCodes(raw any) ([]int, error) {
	s, ok := raw.(string)
	if !ok {
		return cast.ToIntSliceE(raw)
	}
	var codes []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, err := cast.ToIntE(part)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}
