package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type StorageConfig struct {
	ConnectionString     string `yaml:"connection_string"`
	SubmissionsContainer string `yaml:"submissions_container"`
	ResultsContainer     string `yaml:"results_container"`
	ProposalsContainer   string `yaml:"proposals_container"`
	OutputPrefix         string `yaml:"output_prefix"`
}

type AnalysisConfig struct {
	Endpoint     string `yaml:"endpoint"`
	APIKey       string `yaml:"api_key"`
	ModelID      string `yaml:"model_id"`
	OutputFormat string `yaml:"output_format"`
	APIVersion   string `yaml:"api_version"`
	MaxPolls     int    `yaml:"max_polls"`
}

type AgentConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Token       string  `yaml:"token"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTurns    int     `yaml:"max_turns"`
}

type SearchConfig struct {
	Region       string   `yaml:"region"`
	SafeSearch   string   `yaml:"safesearch"`
	TimeLimit    string   `yaml:"timelimit"`
	MaxResults   int      `yaml:"max_results"`
	RateLimit    float64  `yaml:"rate_limit"`
	AllowDomains []string `yaml:"allow_domains"`
	DenyDomains  []string `yaml:"deny_domains"`
}

type ResearchConfig struct {
	DatabaseURL string `yaml:"database_url"`
	TableName   string `yaml:"table_name"`
	VectorDim   int    `yaml:"vector_dim"`
	EmbedModel  string `yaml:"embed_model"`
	EmbedURL    string `yaml:"embed_url"`
}

type RequirementsConfig struct {
	MustHave   []string `yaml:"must_have"`
	NiceToHave []string `yaml:"nice_to_have"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type Config struct {
	Storage      StorageConfig      `yaml:"storage"`
	Analysis     AnalysisConfig     `yaml:"analysis"`
	Agent        AgentConfig        `yaml:"agent"`
	Search       SearchConfig       `yaml:"search"`
	Research     ResearchConfig     `yaml:"research"`
	Requirements RequirementsConfig `yaml:"requirements"`
	Server       ServerConfig       `yaml:"server"`
}

// LoadConfig reads the YAML config, then lets environment variables win for
// credentials and endpoints. A .env file is honored when present.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/supplysift/config.yaml"),
			"/etc/supplysift/config.yaml",
		}
		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	config := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	mergeWithEnv(config)
	applyDefaults(config)

	return config, nil
}

func applyDefaults(config *Config) {
	if config.Storage.SubmissionsContainer == "" {
		config.Storage.SubmissionsContainer = "rfi-submissions"
	}
	if config.Storage.ResultsContainer == "" {
		config.Storage.ResultsContainer = "rfi-results"
	}
	if config.Storage.ProposalsContainer == "" {
		config.Storage.ProposalsContainer = "proposals"
	}
	if config.Storage.OutputPrefix == "" {
		config.Storage.OutputPrefix = "outputs/"
	}

	if config.Analysis.ModelID == "" {
		config.Analysis.ModelID = "prebuilt-layout"
	}
	if config.Analysis.OutputFormat == "" {
		config.Analysis.OutputFormat = "text"
	}
	if config.Analysis.APIVersion == "" {
		config.Analysis.APIVersion = "2024-11-30"
	}
	if config.Analysis.MaxPolls == 0 {
		config.Analysis.MaxPolls = 20
	}

	if config.Agent.Model == "" {
		config.Agent.Model = "gpt-4o-mini"
	}
	if config.Agent.Temperature == 0 {
		config.Agent.Temperature = 0.2
	}
	if config.Agent.MaxTurns == 0 {
		config.Agent.MaxTurns = 20
	}

	if config.Search.Region == "" {
		config.Search.Region = "eu-en"
	}
	if config.Search.SafeSearch == "" {
		config.Search.SafeSearch = "moderate"
	}
	if config.Search.TimeLimit == "" {
		config.Search.TimeLimit = "y"
	}
	if config.Search.MaxResults == 0 {
		config.Search.MaxResults = 20
	}
	if config.Search.RateLimit == 0 {
		config.Search.RateLimit = 1.0
	}

	if config.Research.TableName == "" {
		config.Research.TableName = "supplier_profiles"
	}
	if config.Research.VectorDim == 0 {
		config.Research.VectorDim = 768
	}
	if config.Research.EmbedModel == "" {
		config.Research.EmbedModel = "nomic-embed-text:latest"
	}
	if config.Research.EmbedURL == "" {
		config.Research.EmbedURL = "http://localhost:11434"
	}

	if len(config.Requirements.MustHave) == 0 {
		config.Requirements.MustHave = []string{"iso_27001"}
	}

	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
}

func mergeWithEnv(config *Config) {
	if conn := os.Getenv("AZURE_STORAGE_CONNECTION_STRING"); conn != "" {
		config.Storage.ConnectionString = conn
	}
	if container := os.Getenv("RFI_CONTAINER"); container != "" {
		config.Storage.SubmissionsContainer = container
	}
	if container := os.Getenv("RFI_RESULTS_CONTAINER"); container != "" {
		config.Storage.ResultsContainer = container
	}
	if endpoint := os.Getenv("DOCUMENT_INTELLIGENCE_ENDPOINT"); endpoint != "" {
		config.Analysis.Endpoint = endpoint
	}
	if key := os.Getenv("DOCUMENT_INTELLIGENCE_API_KEY"); key != "" {
		config.Analysis.APIKey = key
	}
	if baseURL := os.Getenv("AGENT_BASE_URL"); baseURL != "" {
		config.Agent.BaseURL = baseURL
	}
	if token := os.Getenv("AGENT_TOKEN"); token != "" {
		config.Agent.Token = token
	}
	if model := os.Getenv("AGENT_MODEL"); model != "" {
		config.Agent.Model = model
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Research.DatabaseURL = dbURL
	}
}
