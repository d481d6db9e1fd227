package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/multierr"
)

type ConfigSuite struct {
	suite.Suite
	dir string
}

func (suite *ConfigSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.T().Setenv(EnvLang, "")
}

func (suite *ConfigSuite) path() string {
	return filepath.Join(suite.dir, "nested", "config.yaml")
}

func (suite *ConfigSuite) TestMissingFileWritesDefaults() {
	m, err := NewManagerAt(suite.path())
	suite.Require().NoError(err)
	suite.Equal(DefaultConfig(), m.GetConfig())
	suite.Equal(suite.path(), m.Path())

	_, err = os.Stat(suite.path())
	suite.NoError(err)

	again, err := NewManagerAt(suite.path())
	suite.Require().NoError(err)
	suite.Equal(m.GetConfig(), again.GetConfig())
}

func (suite *ConfigSuite) TestPartialFile() {
	suite.Require().NoError(os.MkdirAll(filepath.Dir(suite.path()), 0755))
	suite.Require().NoError(os.WriteFile(suite.path(), []byte("app:\n  window_width: 500\nsound:\n  enabled: false\n"), 0644))

	m, err := NewManagerAt(suite.path())
	suite.Require().NoError(err)
	cfg := m.GetConfig()
	suite.Equal(500, cfg.App.WindowWidth)
	suite.Equal(DefaultConfig().App.WindowHeight, cfg.App.WindowHeight)
	suite.False(cfg.Sound.Enabled)
	suite.Equal("info", cfg.Log.Level)
}

func (suite *ConfigSuite) TestLangOverride() {
	suite.T().Setenv(EnvLang, "pt")
	m, err := NewManagerAt(suite.path())
	suite.Require().NoError(err)
	suite.Equal("pt", m.GetConfig().App.Language)
}

func (suite *ConfigSuite) TestEnvPath() {
	suite.T().Setenv(EnvConfigPath, suite.path())
	m, err := NewManager()
	suite.Require().NoError(err)
	suite.Equal(suite.path(), m.Path())
}

func (suite *ConfigSuite) TestBadYAML() {
	suite.Require().NoError(os.MkdirAll(filepath.Dir(suite.path()), 0755))
	suite.Require().NoError(os.WriteFile(suite.path(), []byte("app: [not a map"), 0644))

	_, err := NewManagerAt(suite.path())
	suite.Error(err)
	suite.Contains(err.Error(), "parse config")
}

func (suite *ConfigSuite) TestInvalidValues() {
	suite.Require().NoError(os.MkdirAll(filepath.Dir(suite.path()), 0755))
	suite.Require().NoError(os.WriteFile(suite.path(), []byte("app:\n  window_width: 0\n  window_height: -1\nlog:\n  level: loud\n"), 0644))

	_, err := NewManagerAt(suite.path())
	suite.Require().Error(err)
	suite.Contains(err.Error(), "window_width")
	suite.Contains(err.Error(), "window_height")
	suite.Contains(err.Error(), "log.level")
}

func (suite *ConfigSuite) TestValidate() {
	suite.NoError(DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Sound.SampleRate = 0
	cfg.Sound.DurationMs = 0
	cfg.Sound.StartFreq = 0
	suite.Len(multierr.Errors(cfg.Validate()), 3)

	cfg.Sound.Enabled = false
	suite.NoError(cfg.Validate())

	cfg.App.Theme = "neon"
	suite.Len(multierr.Errors(cfg.Validate()), 1)
	cfg.App.Theme = "dark"
	suite.NoError(cfg.Validate())
}

func TestConfig(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}
