// Package config provides the service configuration: where the static
// datasets live, how to reach the vector index and the generative model,
// and how wage areas are ranked.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerSettings configures the HTTP surface.
type ServerSettings struct {
	Port            string `yaml:"port"`              // Port to listen on (e.g., "8080")
	Mode            string `yaml:"mode"`              // gin mode: "debug", "release" or "test"
	MaxRequestBytes int64  `yaml:"max_request_bytes"` // Upper bound for request bodies
}

// DataSettings points at the static datasets.
type DataSettings struct {
	WageDataPath  string `yaml:"wage_data_path"` // occupation code -> {title, description, areas}
	GeographyPath string `yaml:"geography_path"` // "<county>, <state>" -> {areaCode}
	Preload       bool   `yaml:"preload"`        // Load both datasets at startup instead of on first use
}

// RetrievalSettings configures the vector index used for candidate retrieval.
type RetrievalSettings struct {
	APIKey            string        `yaml:"api_key"`
	IndexName         string        `yaml:"index_name"`
	IndexHost         string        `yaml:"index_host"`
	Namespace         string        `yaml:"namespace"`
	APIVersion        string        `yaml:"api_version"`
	TopK              int           `yaml:"top_k"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// GenerationSettings configures the generative model used for classification.
type GenerationSettings struct {
	APIKey            string        `yaml:"api_key"`
	Model             string        `yaml:"model"`
	BaseURL           string        `yaml:"base_url"`
	Temperature       *float64      `yaml:"temperature"` // Unset leaves the model default
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// RankingSettings configures the wage ranking engine.
type RankingSettings struct {
	SortBy        string `yaml:"sort_by"`        // level1..level4 or average
	StateLimit    int    `yaml:"state_limit"`    // Max areas returned for the comparison state
	NationalLimit int    `yaml:"national_limit"` // Max areas returned nationwide
}

// LoggingSettings configures the structured logger.
type LoggingSettings struct {
	Level string `yaml:"level"`
}

// Settings is the root configuration document.
type Settings struct {
	Server     ServerSettings     `yaml:"server"`
	Data       DataSettings       `yaml:"data"`
	Retrieval  RetrievalSettings  `yaml:"retrieval"`
	Generation GenerationSettings `yaml:"generation"`
	Ranking    RankingSettings    `yaml:"ranking"`
	Logging    LoggingSettings    `yaml:"logging"`
}

// Defaults
const (
	DefaultPort            = "8080"
	DefaultMaxRequestBytes = 1 << 20
	DefaultNamespace       = "__default__"
	DefaultAPIVersion      = "2025-01"
	DefaultTopK            = 5
	MaxTopK                = 50
	DefaultGeminiModel     = "gemini-3-flash-preview"
	DefaultGeminiBaseURL   = "https://generativelanguage.googleapis.com/v1beta"
	DefaultSortBy          = "level3"
	DefaultStateLimit      = 5  // Also the maximum
	DefaultNationalLimit   = 10 // Also the maximum
)

var validSortKeys = map[string]bool{
	"level1": true, "level2": true, "level3": true, "level4": true, "average": true,
}

// Load reads settings from a YAML file, overlays the environment and
// applies defaults. An empty path yields defaults plus environment.
func Load(path string) (Settings, error) {
	var settings Settings
	if path != "" {
		b, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's command line
		if err != nil {
			return settings, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &settings); err != nil {
			return settings, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	settings.ApplyEnv(os.LookupEnv)
	settings.ApplyDefaults()
	return settings, nil
}

// ApplyEnv overlays secrets and endpoint identifiers from the environment.
// Environment values win over the file.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(&s.Retrieval.APIKey, "PINECONE_API_KEY")
	set(&s.Retrieval.IndexName, "PINECONE_INDEX")
	set(&s.Retrieval.IndexHost, "PINECONE_HOST")
	set(&s.Retrieval.Namespace, "PINECONE_NAMESPACE")
	set(&s.Generation.APIKey, "GEMINI_API_KEY")
	set(&s.Generation.Model, "GEMINI_MODEL")
	set(&s.Data.WageDataPath, "WAGE_DATA_PATH")
	set(&s.Data.GeographyPath, "GEOGRAPHY_PATH")
	set(&s.Logging.Level, "LOG_LEVEL")
	set(&s.Server.Port, "PORT")
}

// ApplyDefaults fills in every unset value.
func (s *Settings) ApplyDefaults() {
	if s.Server.Port == "" {
		s.Server.Port = DefaultPort
	}
	if s.Server.Mode == "" {
		s.Server.Mode = "release"
	}
	if s.Server.MaxRequestBytes == 0 {
		s.Server.MaxRequestBytes = DefaultMaxRequestBytes
	}

	if s.Data.WageDataPath == "" {
		s.Data.WageDataPath = "data/wage_data.json"
	}
	if s.Data.GeographyPath == "" {
		s.Data.GeographyPath = "data/county_to_area_code.json"
	}

	if s.Retrieval.Namespace == "" {
		s.Retrieval.Namespace = DefaultNamespace
	}
	if s.Retrieval.APIVersion == "" {
		s.Retrieval.APIVersion = DefaultAPIVersion
	}
	if s.Retrieval.TopK == 0 {
		s.Retrieval.TopK = DefaultTopK
	}
	if s.Retrieval.Timeout == 0 {
		s.Retrieval.Timeout = 10 * time.Second
	}
	if s.Retrieval.RequestsPerSecond == 0 {
		s.Retrieval.RequestsPerSecond = 5
	}
	if s.Retrieval.Burst == 0 {
		s.Retrieval.Burst = 5
	}

	if s.Generation.Model == "" {
		s.Generation.Model = DefaultGeminiModel
	}
	if s.Generation.BaseURL == "" {
		s.Generation.BaseURL = DefaultGeminiBaseURL
	}
	if s.Generation.Timeout == 0 {
		s.Generation.Timeout = 60 * time.Second
	}
	if s.Generation.RequestsPerSecond == 0 {
		s.Generation.RequestsPerSecond = 2
	}
	if s.Generation.Burst == 0 {
		s.Generation.Burst = 2
	}

	if s.Ranking.SortBy == "" {
		s.Ranking.SortBy = DefaultSortBy
	}
	if s.Ranking.StateLimit == 0 {
		s.Ranking.StateLimit = DefaultStateLimit
	}
	if s.Ranking.NationalLimit == 0 {
		s.Ranking.NationalLimit = DefaultNationalLimit
	}

	if s.Logging.Level == "" {
		s.Logging.Level = "INFO"
	}
}

// Validate returns one message per problem. Missing credentials are not
// reported here: they surface as configuration errors on first use, so the
// wage endpoints keep working without them.
func (s *Settings) Validate() []string {
	var problems []string

	if strings.TrimSpace(s.Server.Port) == "" {
		problems = append(problems, "server.port cannot be empty")
	}
	if s.Server.MaxRequestBytes < 0 {
		problems = append(problems, "server.max_request_bytes cannot be negative")
	}
	if strings.TrimSpace(s.Data.WageDataPath) == "" {
		problems = append(problems, "data.wage_data_path cannot be empty")
	}
	if strings.TrimSpace(s.Data.GeographyPath) == "" {
		problems = append(problems, "data.geography_path cannot be empty")
	}
	if s.Retrieval.TopK < 1 || s.Retrieval.TopK > MaxTopK {
		problems = append(problems, fmt.Sprintf("retrieval.top_k must be between 1 and %d", MaxTopK))
	}
	if s.Retrieval.Timeout < 0 || s.Generation.Timeout < 0 {
		problems = append(problems, "timeouts cannot be negative")
	}
	if s.Retrieval.RequestsPerSecond < 0 || s.Generation.RequestsPerSecond < 0 {
		problems = append(problems, "requests_per_second cannot be negative")
	}
	if t := s.Generation.Temperature; t != nil && (*t < 0 || *t > 2) {
		problems = append(problems, "generation.temperature must be between 0 and 2")
	}
	if !validSortKeys[s.Ranking.SortBy] {
		problems = append(problems, "Invalid ranking.sort_by '"+s.Ranking.SortBy+"' (must be one of level1, level2, level3, level4, average)")
	}
	if s.Ranking.StateLimit < 1 || s.Ranking.StateLimit > DefaultStateLimit {
		problems = append(problems, fmt.Sprintf("ranking.state_limit must be between 1 and %d", DefaultStateLimit))
	}
	if s.Ranking.NationalLimit < 1 || s.Ranking.NationalLimit > DefaultNationalLimit {
		problems = append(problems, fmt.Sprintf("ranking.national_limit must be between 1 and %d", DefaultNationalLimit))
	}

	return problems
}
