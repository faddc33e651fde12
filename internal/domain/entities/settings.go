package entities

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	UpdateAll  = "all"
	UpdateNone = "none"

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"

	defaultCacheSize = 1024
	defaultCacheTTL  = time.Hour
)

// Settings is the repository configuration read from .requpdate.yaml.
type Settings struct {
	Update       string                `yaml:"update"`    // "all" or "none"
	Pin          bool                  `yaml:"pin"`       // pin loose and ranged requirements
	Search       bool                  `yaml:"search"`    // discover requirement files
	IndexURL     string                `yaml:"index_url"` // default index, PyPI when empty
	Changelog    bool                  `yaml:"changelog"` // record updates in CHANGELOG.md
	Requirements []RequirementSettings `yaml:"requirements"`
	Cache        CacheSettings         `yaml:"cache"`
}

// RequirementSettings overrides the global policy for one file.
type RequirementSettings struct {
	Path   string `yaml:"path"`
	Update string `yaml:"update"`
	Pin    *bool  `yaml:"pin"`
}

// CacheSettings selects the package metadata cache.
type CacheSettings struct {
	Type     string        `yaml:"type"` // "memory", "redis" or "none"
	Size     int           `yaml:"size"`
	TTL      time.Duration `yaml:"ttl"`
	Address  string        `yaml:"address"`
	Password string        `yaml:"password"` // inline or ${ENV_VAR}
	DB       int           `yaml:"db"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// DefaultSettings returns the policy used when no file is found: update
// everything, pin unpinned requirements, search for files, in-memory cache.
func DefaultSettings() *Settings {
	return &Settings{
		Update: UpdateAll,
		Pin:    true,
		Search: true,
		Cache: CacheSettings{
			Type: CacheMemory,
			Size: defaultCacheSize,
			TTL:  defaultCacheTTL,
		},
	}
}

// NewSettings reads and validates a settings file. Keys missing from the
// file keep their DefaultSettings value.
func NewSettings(configPath string) (*Settings, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
	}

	settings := DefaultSettings()
	if unmarshalErr := yaml.Unmarshal(data, settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}
	settings.Cache.Password = expandEnv(settings.Cache.Password)

	if validateErr := ValidateSettings(settings); validateErr != nil {
		return nil, validateErr
	}
	return settings, nil
}

// FindConfigFile searches the repository directory and the user config
// directories for a settings file.
func FindConfigFile(repoDir string) (string, error) {
	locations := []string{repoDir, filepath.Join(repoDir, ".config")}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config"))
	}

	patterns := []string{
		".requpdate.yaml",
		".requpdate.yml",
		"requpdate.yaml",
		"requpdate.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}
	return "", errors.New("config file not found in default locations")
}

// ValidateSettings checks enumerations and required keys.
func ValidateSettings(settings *Settings) error {
	if !isUpdatePolicy(settings.Update) {
		return fmt.Errorf("update must be %q or %q, got %q", UpdateAll, UpdateNone, settings.Update)
	}

	for i, req := range settings.Requirements {
		if req.Path == "" {
			return fmt.Errorf("requirements[%d].path is required", i)
		}
		if req.Update != "" && !isUpdatePolicy(req.Update) {
			return fmt.Errorf("requirements[%d].update must be %q or %q", i, UpdateAll, UpdateNone)
		}
	}

	switch settings.Cache.Type {
	case "", CacheMemory, CacheNone:
	case CacheRedis:
		if settings.Cache.Address == "" {
			return errors.New("cache.address is required for the redis cache")
		}
	default:
		return fmt.Errorf("cache.type %q is not supported", settings.Cache.Type)
	}
	return nil
}

// CanUpdate reports whether requirements of the file may be updated.
func (s *Settings) CanUpdate(filePath string) bool {
	if req := s.requirementSettings(filePath); req != nil && req.Update != "" {
		return req.Update == UpdateAll
	}
	return s.Update != UpdateNone
}

// CanPin reports whether unpinned requirements of the file may be pinned.
func (s *Settings) CanPin(filePath string) bool {
	if req := s.requirementSettings(filePath); req != nil && req.Pin != nil {
		return *req.Pin
	}
	return s.Pin
}

func (s *Settings) requirementSettings(filePath string) *RequirementSettings {
	clean := path.Clean(filePath)
	for i := range s.Requirements {
		if path.Clean(s.Requirements[i].Path) == clean {
			return &s.Requirements[i]
		}
	}
	return nil
}

func isUpdatePolicy(value string) bool {
	return value == UpdateAll || value == UpdateNone
}

// expandEnv replaces ${VAR} references with the environment value.
func expandEnv(raw string) string {
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}
