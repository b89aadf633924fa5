package bootstrap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	sitefeeds "github.com/goliatone/go-site-feeds"
)

// EnvPrefix namespaces environment overrides, e.g. SITEFEEDS_SITE_BASE_URL.
const EnvPrefix = "SITEFEEDS"

// envKeys are the scalar settings that can be set from the environment
// without a config file.
var envKeys = []string{
	"development",
	"site.title",
	"site.base_url",
	"site.author",
	"site.email",
	"site.language",
	"content.dir",
	"content.assets_route",
	"feeds.invalid_date_policy",
	"feeds.concurrency",
	"feeds.cache_control",
	"feeds.footer",
	"feeds.description_from_body",
	"markdown.engine",
	"cache.enabled",
	"cache.default_ttl",
	"cache.max_entries",
	"server.addr",
	"server.read_timeout",
	"server.write_timeout",
	"server.shutdown_timeout",
	"generator.output_dir",
	"logging.provider",
	"logging.level",
	"logging.format",
	"features.watch",
	"features.sitemap",
	"features.logger",
}

// Options captures what the CLI resolved from flags.
type Options struct {
	// ConfigFile is an explicit config path. When empty ./sitefeeds.yaml is
	// used if present.
	ConfigFile string
	// ContentDir overrides content.dir when set.
	ContentDir string
}

// LoadConfig layers defaults, the config file and SITEFEEDS_ environment
// variables, then validates the result. The returned string is the config
// file used, empty when none was found.
func LoadConfig(opts Options) (sitefeeds.Config, string, error) {
	v := viper.New()
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("sitefeeds")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return sitefeeds.Config{}, "", fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || opts.ConfigFile != "" {
			return sitefeeds.Config{}, "", fmt.Errorf("read config: %w", err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	cfg := sitefeeds.DefaultConfig()
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.ZeroFields = true
	}); err != nil {
		return sitefeeds.Config{}, used, fmt.Errorf("decode config: %w", err)
	}
	if dir := strings.TrimSpace(opts.ContentDir); dir != "" {
		cfg.Content.Dir = dir
	}
	if err := cfg.Validate(); err != nil {
		return sitefeeds.Config{}, used, err
	}
	return cfg, used, nil
}

// BuildModule loads the configuration and constructs the module.
func BuildModule(opts Options, moduleOpts ...sitefeeds.Option) (*sitefeeds.Module, error) {
	cfg, _, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}
	module, err := sitefeeds.New(cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise sitefeeds module: %w", err)
	}
	return module, nil
}
