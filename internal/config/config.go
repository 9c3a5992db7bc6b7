package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// HomeEnv overrides the directory that holds the config file and, unless
// root_dir says otherwise, all data.
const HomeEnv = "PROMPTSMITH_HOME"

const fileName = ".promptsmith.yaml"

var (
	exeDirCache string
)

// getExecutableDir returns the directory where the executable is located
func getExecutableDir() string {
	if exeDirCache != "" {
		return exeDirCache
	}
	execPath, err := os.Executable()
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	exeDirCache = filepath.Dir(execPath)
	return exeDirCache
}

type Config struct {
	RootDir      string         `yaml:"root_dir,omitempty"`
	StylesDir    string         `yaml:"styles_dir"`
	DataDir      string         `yaml:"data_dir"`
	SettingsFile string         `yaml:"settings_file"`
	AutosaveFile string         `yaml:"autosave_file"`
	History      HistoryConfig  `yaml:"history"`
	Archive      ArchiveConfig  `yaml:"archive"`
	Autosave     AutosaveConfig `yaml:"autosave,omitempty"`
	Logging      LoggingConfig  `yaml:"logging"`

	path string
}

type HistoryConfig struct {
	MaxItems  int    `yaml:"max_items"`
	AuditFile string `yaml:"audit_file"`
}

// ArchiveConfig configures the SQLite record of every committed prompt.
type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// AutosaveConfig overrides the record's autosave interval with a cron
// expression (seconds field included) or a descriptor such as "@every 30s".
type AutosaveConfig struct {
	Schedule string `yaml:"schedule,omitempty"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		StylesDir:    "Styles",
		DataDir:      "data",
		SettingsFile: "config.json",
		AutosaveFile: "autosave_prompt.txt",
		History: HistoryConfig{
			MaxItems:  100,
			AuditFile: "prompt_log.txt",
		},
		Archive: ArchiveConfig{
			Enabled: true,
			Path:    filepath.Join("data", "archive.db"),
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// ConfigDir is the directory holding the config file: $PROMPTSMITH_HOME when
// set, otherwise the executable's directory.
func ConfigDir() string {
	if home := strings.TrimSpace(os.Getenv(HomeEnv)); home != "" {
		return home
	}
	return getExecutableDir()
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), fileName)
}

func Load() (*Config, error) {
	return LoadFromPath(ConfigPath())
}

// LoadFromPath reads the config at path. A missing file yields the defaults
// rooted at path's directory.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.Normalize()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize fills blank fields with defaults and anchors the root directory.
func (c *Config) Normalize() {
	def := DefaultConfig()
	trimDefault := func(v *string, d string) {
		*v = strings.TrimSpace(*v)
		if *v == "" {
			*v = d
		}
	}
	trimDefault(&c.StylesDir, def.StylesDir)
	trimDefault(&c.DataDir, def.DataDir)
	trimDefault(&c.SettingsFile, def.SettingsFile)
	trimDefault(&c.AutosaveFile, def.AutosaveFile)
	trimDefault(&c.History.AuditFile, def.History.AuditFile)
	trimDefault(&c.Archive.Path, def.Archive.Path)
	trimDefault(&c.Logging.Level, def.Logging.Level)
	c.Autosave.Schedule = strings.TrimSpace(c.Autosave.Schedule)
	c.Logging.File = strings.TrimSpace(c.Logging.File)
	if c.History.MaxItems <= 0 {
		c.History.MaxItems = def.History.MaxItems
	}

	c.RootDir = strings.TrimSpace(c.RootDir)
	if c.RootDir == "" {
		if c.path != "" {
			c.RootDir = filepath.Dir(c.path)
		} else {
			c.RootDir = ConfigDir()
		}
	}
}

// Path is the file this config was loaded from or will be saved to.
func (c *Config) Path() string {
	if c.path == "" {
		return ConfigPath()
	}
	return c.path
}

// Resolve anchors a relative path at RootDir.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.RootDir, p)
}

func (c *Config) StylesPath() string { return c.Resolve(c.StylesDir) }

func (c *Config) DataPath() string { return c.Resolve(c.DataDir) }

func (c *Config) SettingsPath() string { return c.Resolve(c.SettingsFile) }

func (c *Config) AutosavePath() string { return c.Resolve(c.AutosaveFile) }

func (c *Config) ArchivePath() string { return c.Resolve(c.Archive.Path) }

func (c *Config) TemplatesPath() string {
	return filepath.Join(c.DataPath(), "prompt_templates.json")
}

func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataPath(), "prompt_history.json")
}

// AuditPath places a bare audit file name inside the data directory.
func (c *Config) AuditPath() string {
	if filepath.IsAbs(c.History.AuditFile) || strings.ContainsRune(c.History.AuditFile, os.PathSeparator) {
		return c.Resolve(c.History.AuditFile)
	}
	return filepath.Join(c.DataPath(), c.History.AuditFile)
}

func (c *Config) LogPath() string { return c.Resolve(c.Logging.File) }

// Save writes the config to Path. A root directory that is just the config
// file's own directory is left out so the install can be moved.
func (c *Config) Save() error {
	path := c.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	out := *c
	if filepath.Clean(out.RootDir) == filepath.Dir(path) {
		out.RootDir = ""
	}
	data, err := yaml.Marshal(&out)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
