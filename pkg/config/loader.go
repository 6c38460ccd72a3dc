package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/cleanfiles/pkg/errors"
	"github.com/arthur-debert/cleanfiles/pkg/logging"
	"github.com/arthur-debert/cleanfiles/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix starts every configuration environment variable
const EnvPrefix = "CLEANFILES_"

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// LoadOptions says where configuration comes from
type LoadOptions struct {
	MainDir string
	AuxDirs []string

	// ConfigFile is the file to read. Empty means the default location,
	// which may be missing; an explicit file must exist.
	ConfigFile string

	// Overrides are flat koanf keys ("actions.delete") applied last
	Overrides map[string]interface{}

	// Environ replaces os.Environ for the environment layer when set
	Environ []string
}

// Default returns the embedded defaults without any user layer
func Default() *Config {
	cfg, err := decode(mustDefaults())
	if err != nil {
		panic("embedded defaults do not decode: " + err.Error())
	}
	return cfg
}

// DefaultContent returns the embedded defaults file
func DefaultContent() string {
	return string(defaultConfig)
}

// Load builds the configuration from every layer. Directory access is not
// checked here; see ValidateDirs.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")

	k := mustDefaults()

	path, explicit := opts.ConfigFile, opts.ConfigFile != ""
	if !explicit {
		path = paths.DefaultConfigFile()
	}
	path = paths.ExpandHome(path)

	if err := loadFile(k, path, explicit); err != nil {
		return nil, err
	}

	if err := loadEnv(k, opts.Environ); err != nil {
		return nil, err
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigInvalid, "failed to apply overrides")
		}
	}

	cfg, err := decode(k)
	if err != nil {
		return nil, err
	}
	cfg.MainDir = opts.MainDir
	cfg.AuxDirs = append([]string(nil), opts.AuxDirs...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("file", path).
		Str("main", cfg.MainDir).
		Strs("aux", cfg.AuxDirs).
		Msg("Configuration loaded")
	return cfg, nil
}

func mustDefaults() *koanf.Koanf {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		panic("embedded defaults do not parse: " + err.Error())
	}
	return k
}

func loadFile(k *koanf.Koanf, path string, explicit bool) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return errors.PathError(err, errors.ErrConfigLoad, "read config", path)
	}
	if info.IsDir() {
		return errors.Newf(errors.ErrConfigLoad, "config path %s is a directory", path).WithDetail("path", path)
	}

	var parser koanf.Parser = toml.Parser()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.PathError(err, errors.ErrConfigParse, "parse config", path)
	}
	return nil
}

// envKey maps CLEANFILES_FILES__SUBSTITUTE_CHAR to files.substitute_char.
// Variables without a section separator are not configuration keys.
func envKey(s string) string {
	key := strings.TrimPrefix(s, EnvPrefix)
	if !strings.Contains(key, "__") {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(key), "__", ".")
}

func loadEnv(k *koanf.Koanf, environ []string) error {
	if environ == nil {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
		}
		return nil
	}

	values := make(map[string]interface{})
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		if key := envKey(name); key != "" {
			values[key] = value
		}
	}
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}
	return nil
}

func decode(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				policyHookFunc(),
				listHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "failed to decode configuration")
	}

	cfg.Files.TempFileSuffixes = cleanList(cfg.Files.TempFileSuffixes)
	cfg.Files.Exclude = cleanList(cfg.Files.Exclude)
	return &cfg, nil
}
