package config

import (
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	configFileEnv     = "CONFIG_FILE"
	defaultConfigFile = "/config/folio.yaml"
)

type Config struct {
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path" required:"true"`
	Hostname                  string        `koanf:"-"`
	JWTSecret                 string        `koanf:"jwt_secret" required:"true"`
	LibraryDir                string        `koanf:"library_dir"`
	LogHighlightMisses        bool          `koanf:"log_highlight_misses"`
	ServerHost                string        `koanf:"server_host"`
	ServerPort                int           `koanf:"server_port"`
	TokenExpiry               time.Duration `koanf:"token_expiry"`

	// Reader page defaults.
	BridgeScriptURL        string            `koanf:"bridge_script_url"`
	StylesheetURL          string            `koanf:"stylesheet_url"`
	DefaultFont            string            `koanf:"default_font"`
	DefaultFontSize        int               `koanf:"default_font_size"`
	MediaOverlayColor      string            `koanf:"media_overlay_color"`
	MediaOverlayColorLight string            `koanf:"media_overlay_color_light"`
	HighlightStyleClasses  map[string]string `koanf:"highlight_style_classes"`
	ClickListeners         []ClickListener   `koanf:"click_listeners"`
}

// ClickListener makes every element matching QuerySelector report taps
// through the <SchemeName>:// URL scheme, carrying the value of AttributeName.
type ClickListener struct {
	SchemeName    string `koanf:"scheme_name" json:"scheme_name"`
	QuerySelector string `koanf:"query_selector" json:"query_selector"`
	AttributeName string `koanf:"attribute_name" json:"attribute_name"`
	SelectAll     bool   `koanf:"select_all" json:"select_all"`
}

func defaults() *Config {
	return &Config{
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		LibraryDir:                "/books",
		LogHighlightMisses:        true,
		ServerHost:                "0.0.0.0",
		ServerPort:                3689,
		TokenExpiry:               30 * 24 * time.Hour,
		BridgeScriptURL:           "/static/bridge.js",
		StylesheetURL:             "/static/style.css",
		DefaultFont:               "andada",
		DefaultFontSize:           2,
		MediaOverlayColor:         "#ffcc00",
		MediaOverlayColorLight:    "#fff2b3",
	}
}

// New loads the config from defaults, then the YAML file named by CONFIG_FILE
// (if it exists), then environment variables.
func New() (*Config, error) {
	cfg := defaults()

	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	cfg.Hostname = hostname

	k := koanf.New(".")

	path := os.Getenv(configFileEnv)
	if path == "" {
		path = defaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", path)
		}
	}

	known := knownKeys()
	err = k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		name := strings.ToLower(key)
		if value == "" || !known[name] {
			return "", nil
		}
		return name, value
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a config suitable for tests, backed by an in-memory
// database.
func NewForTest() *Config {
	cfg := defaults()
	cfg.DatabaseFilePath = ":memory:"
	cfg.DatabaseConnectRetryCount = 1
	cfg.DatabaseConnectRetryDelay = 0
	cfg.JWTSecret = "test-secret"
	cfg.ServerHost = "127.0.0.1"
	cfg.LogHighlightMisses = false
	return cfg
}

func (cfg *Config) validate() error {
	var missing []string
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Tag.Get("required") != "true" || !v.Field(i).IsZero() {
			continue
		}
		key := f.Tag.Get("koanf")
		missing = append(missing, strings.ToUpper(key)+" (env) or "+key+" (config file)")
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}

// knownKeys returns the koanf keys that may be set from the environment.
// Maps and lists are only read from the config file.
func knownKeys() map[string]bool {
	keys := map[string]bool{}
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := f.Tag.Get("koanf")
		if key == "-" || f.Type.Kind() == reflect.Map || f.Type.Kind() == reflect.Slice {
			continue
		}
		if key == "" {
			key = toSnakeCase(f.Name)
		}
		keys[key] = true
	}
	return keys
}

func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}
