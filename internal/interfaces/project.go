package interfaces

// ProjectManager handles project discovery and configuration loading.
type ProjectManager interface {
	FindProjectRoot(startDir string) (string, error)
	LoadConfig(projectRoot string) (*ProjectConfig, error)
	LoadConfigFile(configPath string) (*ProjectConfig, error)
}

// ProjectMode represents how the gateway session is obtained.
type ProjectMode string

const (
	// ModeLocal runs the gateway in a Docker container on this machine.
	ModeLocal ProjectMode = "local"
	// ModeRemote connects to an already running gateway by URL.
	ModeRemote ProjectMode = "remote"
)

// ProjectConfig represents the .lettersync/lettersync.yaml configuration.
type ProjectConfig struct {
	Version int           `yaml:"version" mapstructure:"version"`
	Gateway GatewayConfig `yaml:"gateway" mapstructure:"gateway"`
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
}

// GatewayConfig contains gateway-session configuration.
type GatewayConfig struct {
	Mode            ProjectMode `yaml:"mode" mapstructure:"mode"`
	URL             string      `yaml:"url,omitempty" mapstructure:"url"`
	DockerContainer string      `yaml:"docker_container,omitempty" mapstructure:"docker_container"`
	Port            int         `yaml:"port,omitempty" mapstructure:"port"`
}

// PathsConfig contains the tracked directory layout, relative to the project
// root. Zero values fall back to the conventional layout.
type PathsConfig struct {
	Letters   string `yaml:"letters,omitempty" mapstructure:"letters"`
	TestData  string `yaml:"test_data,omitempty" mapstructure:"test_data"`
	Artifacts string `yaml:"artifacts,omitempty" mapstructure:"artifacts"`
}

// LettersDir returns the tracked letters directory, defaulting to xsl/letters.
func (p PathsConfig) LettersDir() string {
	if p.Letters != "" {
		return p.Letters
	}
	return "xsl/letters"
}

// TestDataDir returns the test document directory, defaulting to test-data.
func (p PathsConfig) TestDataDir() string {
	if p.TestData != "" {
		return p.TestData
	}
	return "test-data"
}

// ArtifactsDir returns the render artifact directory, defaulting to screenshots.
func (p PathsConfig) ArtifactsDir() string {
	if p.Artifacts != "" {
		return p.Artifacts
	}
	return "screenshots"
}
