package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/unkn0wn-root/repo-bootstrap/internal/errdef"
	"github.com/unkn0wn-root/repo-bootstrap/internal/fetch"
)

const (
	DefaultOwner = "MyTownDigitalSolutions"
	DefaultRepo  = "Repo_Setup_Templates"
	DefaultRef   = "main"
)

const (
	envPrefix      = "REPO_BOOTSTRAP_"
	envConfig      = envPrefix + "CONFIG"
	envConfigDir   = envPrefix + "CONFIG_DIR"
	envOwner       = envPrefix + "OWNER"
	envRepo        = envPrefix + "REPO"
	envRef         = envPrefix + "REF"
	envRawBase     = envPrefix + "RAW_BASE"
	envProjectName = envPrefix + "PROJECT_NAME"
)

// Config holds the settings that may come from a file or the environment.
// Run-mode switches such as --dry-run and --overwrite are flag-only.
type Config struct {
	Owner          string `toml:"owner" yaml:"owner" validate:"required,excludesall=/"`
	Repo           string `toml:"repo" yaml:"repo" validate:"required,excludesall=/"`
	Ref            string `toml:"ref" yaml:"ref" validate:"required"`
	RawBase        string `toml:"raw_base" yaml:"raw_base" validate:"required,http_url"`
	ProjectName    string `toml:"project_name" yaml:"project_name"`
	WriteReadme    bool   `toml:"write_readme" yaml:"write_readme"`
	PatchGitignore bool   `toml:"patch_gitignore" yaml:"patch_gitignore"`
}

func Default() Config {
	return Config{
		Owner:   DefaultOwner,
		Repo:    DefaultRepo,
		Ref:     DefaultRef,
		RawBase: fetch.DefaultRawBase,
	}
}

// Load layers the config file and REPO_BOOTSTRAP_* variables over the
// defaults. An explicit path (argument or REPO_BOOTSTRAP_CONFIG) must exist;
// the per-user default file is optional.
func Load(path string) (Config, error) {
	cfg := Default()

	p, explicit := resolvePath(path)
	if err := readFile(p, &cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errdef.Wrap(errdef.CodeConfig, err, "load config %s", p)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func resolvePath(path string) (string, bool) {
	if p := strings.TrimSpace(path); p != "" {
		return p, true
	}
	if p := strings.TrimSpace(os.Getenv(envConfig)); p != "" {
		return p, true
	}
	return DefaultPath(), false
}

func readFile(p string, cfg *Config) error {
	data, err := os.ReadFile(p)
	if err != nil {
		return err
	}

	switch ext := strings.ToLower(filepath.Ext(p)); ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}
}

func applyEnv(cfg *Config) {
	set := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(envOwner, &cfg.Owner)
	set(envRepo, &cfg.Repo)
	set(envRef, &cfg.Ref)
	set(envRawBase, &cfg.RawBase)
	set(envProjectName, &cfg.ProjectName)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks the resolved values before any filesystem or network work.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errdef.Wrap(errdef.CodeConfig, err, "invalid config")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errdef.New(errdef.CodeConfig, "invalid config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "excludesall":
		return fmt.Sprintf("%s %q must not contain %q", fe.Field(), fe.Value(), fe.Param())
	case "http_url":
		return fmt.Sprintf("%s %q must be an http(s) URL", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
