package project

import (
	"os"
	"path/filepath"

	"github.com/lettersync/cli/internal/errors"
	"github.com/lettersync/cli/internal/interfaces"
	"github.com/spf13/viper"
)

// ConfigDirName is the hidden project directory holding config and state.
const ConfigDirName = ".lettersync"

// ConfigFileName is the project configuration file inside ConfigDirName.
const ConfigFileName = "lettersync.yaml"

// Manager implements the ProjectManager interface
type Manager struct{}

// NewManager creates a new ProjectManager instance
func NewManager() interfaces.ProjectManager {
	return &Manager{}
}

// FindProjectRoot searches for .lettersync/lettersync.yaml in the current and
// parent directories, the way git discovers its repository root.
func (m *Manager) FindProjectRoot(startDir string) (string, error) {
	absPath, err := filepath.Abs(startDir)
	if err != nil {
		return "", errors.NewGenericError("failed to resolve absolute path", err)
	}

	currentDir := absPath
	for {
		configPath := filepath.Join(currentDir, ConfigDirName, ConfigFileName)

		info, err := os.Stat(configPath)
		if err == nil && !info.IsDir() {
			return currentDir, nil
		}

		if err != nil && !os.IsNotExist(err) {
			if os.IsPermission(err) {
				return "", errors.NewGenericError("permission denied accessing "+configPath, err)
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", errors.NewContextError("not in a lettersync project directory")
}

// LoadConfig parses the lettersync.yaml configuration file at its
// conventional location inside the project
func (m *Manager) LoadConfig(projectRoot string) (*interfaces.ProjectConfig, error) {
	return m.LoadConfigFile(filepath.Join(projectRoot, ConfigDirName, ConfigFileName))
}

// LoadConfigFile parses a configuration file at an explicit path, for the
// --config flag
func (m *Manager) LoadConfigFile(configPath string) (*interfaces.ProjectConfig, error) {
	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewContextError("configuration file not found")
		}
		return nil, errors.NewGenericError("failed to access configuration file", err)
	}

	// Create a new viper instance for this config
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.NewGenericError("failed to parse configuration file", err)
	}

	var config interfaces.ProjectConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.NewGenericError("failed to parse configuration structure", err)
	}

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validate checks the gateway section for the fields its mode requires.
func validate(config *interfaces.ProjectConfig) error {
	switch config.Gateway.Mode {
	case interfaces.ModeRemote:
		if config.Gateway.URL == "" {
			return errors.NewContextError("gateway.url is required in remote mode")
		}
	case interfaces.ModeLocal:
		if config.Gateway.Port == 0 {
			config.Gateway.Port = 8080
		}
		if config.Gateway.DockerContainer == "" {
			config.Gateway.DockerContainer = "lettersync-gateway"
		}
	default:
		return errors.NewContextError("gateway.mode must be local or remote")
	}
	return nil
}
