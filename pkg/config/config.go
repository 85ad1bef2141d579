// Package config loads the settings of the propgraph tooling layer.
//
// Configuration can be loaded from:
//   - Environment variables
//   - YAML configuration file
//   - Programmatic defaults
//
// Environment variables take precedence over the file:
//
//	PROPGRAPH_ID_GENERATOR          - nanoid, uuid or sequence (default: nanoid)
//	PROPGRAPH_SEQUENCE_START        - first id of the sequence generator (default: 1)
//	PROPGRAPH_KEY_ID                - reserved id key (default: Id)
//	PROPGRAPH_KEY_REVISION          - reserved revision key (default: RevId)
//	PROPGRAPH_KEY_LABEL             - reserved label key (default: Label)
//	PROPGRAPH_SCHEMA_STRICT         - strict schema extraction (default: false)
//	PROPGRAPH_SCHEMA_CONTINUOUS_LEARNING - keep schemas in sync with additions (default: false)
//	PROPGRAPH_SCHEMA_ENFORCE        - veto additions that do not fit the schema (default: false)
//	PROPGRAPH_SCHEMA_LABEL          - id of extracted schema graphs (default: schema)
//	PROPGRAPH_COMPONENTS_PARALLELISM - concurrent component copies (default: 4)
//	PROPGRAPH_LOG_LEVEL             - logrus level (default: info)
//	PROPGRAPH_LOG_FORMAT            - text or json (default: text)
//
// The graph core reads no configuration of its own; GraphOptions converts the
// graph section into graph.Options.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/orneryd/propgraph/pkg/graph"
)

const envPrefix = "PROPGRAPH_"

// Id generator names accepted in GraphConfig.IDGenerator.
const (
	GeneratorNanoID   = "nanoid"
	GeneratorUUID     = "uuid"
	GeneratorSequence = "sequence"
)

// Config holds the tooling configuration.
//
// Example:
//
//	cfg, err := config.LoadFromEnvOrFile("./propgraph.yaml")
//	if err := cfg.Validate(); err != nil {
//		log.Fatal(err)
//	}
//	g, err := graph.New("g", "PropertyGraph", cfg.GraphOptions())
type Config struct {
	Graph      GraphConfig      `yaml:"graph"`
	Schema     SchemaConfig     `yaml:"schema"`
	Components ComponentsConfig `yaml:"components"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GraphConfig controls how graphs are constructed.
type GraphConfig struct {
	// IDGenerator is nanoid, uuid or sequence. Sequence ids are decimal
	// strings.
	IDGenerator string `yaml:"id_generator"`
	// SequenceStart is the first id handed out by the sequence generator.
	SequenceStart int64 `yaml:"sequence_start"`
	// Keys are the reserved property keys aliasing id, revision and label.
	Keys KeysConfig `yaml:"keys"`
	// Labels are used when an element is added with an empty label.
	Labels LabelsConfig `yaml:"labels"`
}

// KeysConfig names the reserved property keys.
type KeysConfig struct {
	ID       string `yaml:"id"`
	Revision string `yaml:"revision"`
	Label    string `yaml:"label"`
}

// LabelsConfig holds the default label per element kind.
type LabelsConfig struct {
	Vertex    string `yaml:"vertex"`
	Edge      string `yaml:"edge"`
	MultiEdge string `yaml:"multi_edge"`
	HyperEdge string `yaml:"hyper_edge"`
}

// SchemaConfig holds defaults for schema extraction.
type SchemaConfig struct {
	Label              string `yaml:"label"`
	Strict             bool   `yaml:"strict"`
	ContinuousLearning bool   `yaml:"continuous_learning"`
	EnforceSchema      bool   `yaml:"enforce_schema"`
}

// ComponentsConfig holds defaults for component splitting.
type ComponentsConfig struct {
	// Parallelism bounds concurrent component copies.
	Parallelism int `yaml:"parallelism"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is any level logrus.ParseLevel accepts.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Graph: GraphConfig{
			IDGenerator:   GeneratorNanoID,
			SequenceStart: 1,
			Keys: KeysConfig{
				ID:       "Id",
				Revision: "RevId",
				Label:    "Label",
			},
			Labels: LabelsConfig{
				Vertex:    "Vertex",
				Edge:      "Edge",
				MultiEdge: "MultiEdge",
				HyperEdge: "HyperEdge",
			},
		},
		Schema: SchemaConfig{
			Label: "schema",
		},
		Components: ComponentsConfig{
			Parallelism: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a YAML file. Fields the file leaves
// out keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadConfigOrDefault loads config from file, or returns the defaults if the
// file cannot be read.
func LoadConfigOrDefault(path string) *Config {
	cfg, err := LoadConfig(path)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// LoadFromEnv applies PROPGRAPH_* environment variables over the defaults.
func LoadFromEnv() *Config {
	cfg := DefaultConfig()
	cfg.applyEnv()
	return cfg
}

// LoadFromEnvOrFile loads the file at filePath and then applies environment
// overrides. An empty filePath or a missing file means the defaults; a file
// that exists but cannot be read or parsed is an error.
func LoadFromEnvOrFile(filePath string) (*Config, error) {
	cfg := DefaultConfig()
	if filePath != "" {
		loaded, err := LoadConfig(filePath)
		switch {
		case err == nil:
			cfg = loaded
		case !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Graph.IDGenerator = getEnv("ID_GENERATOR", c.Graph.IDGenerator)
	c.Graph.SequenceStart = getEnvInt64("SEQUENCE_START", c.Graph.SequenceStart)
	c.Graph.Keys.ID = getEnv("KEY_ID", c.Graph.Keys.ID)
	c.Graph.Keys.Revision = getEnv("KEY_REVISION", c.Graph.Keys.Revision)
	c.Graph.Keys.Label = getEnv("KEY_LABEL", c.Graph.Keys.Label)

	c.Schema.Label = getEnv("SCHEMA_LABEL", c.Schema.Label)
	c.Schema.Strict = getEnvBool("SCHEMA_STRICT", c.Schema.Strict)
	c.Schema.ContinuousLearning = getEnvBool("SCHEMA_CONTINUOUS_LEARNING", c.Schema.ContinuousLearning)
	c.Schema.EnforceSchema = getEnvBool("SCHEMA_ENFORCE", c.Schema.EnforceSchema)

	c.Components.Parallelism = int(getEnvInt64("COMPONENTS_PARALLELISM", int64(c.Components.Parallelism)))

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Graph.IDGenerator {
	case GeneratorNanoID, GeneratorUUID, GeneratorSequence:
	default:
		return fmt.Errorf("invalid id generator %q (want nanoid, uuid or sequence)", c.Graph.IDGenerator)
	}
	k := c.Graph.Keys
	if k.ID == "" || k.Revision == "" || k.Label == "" {
		return fmt.Errorf("reserved keys must not be empty")
	}
	if k.ID == k.Revision || k.ID == k.Label || k.Revision == k.Label {
		return fmt.Errorf("reserved keys must be distinct, got %q %q %q", k.ID, k.Revision, k.Label)
	}
	if c.Schema.Label == "" {
		return fmt.Errorf("schema label must not be empty")
	}
	if c.Components.Parallelism < 0 {
		return fmt.Errorf("components parallelism must be >= 0, got %d", c.Components.Parallelism)
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if f := strings.ToLower(c.Logging.Format); f != "text" && f != "json" {
		return fmt.Errorf("invalid log format %q (want text or json)", c.Logging.Format)
	}
	return nil
}

// GraphOptions converts the graph section into options for
// graph.Graph[string, string, string, V]. Each element kind gets its own
// generator.
func (c *Config) GraphOptions() graph.Options[string, string, string] {
	return graph.Options[string, string, string]{
		Keys: graph.ReservedKeys[string]{
			ID:       c.Graph.Keys.ID,
			Revision: c.Graph.Keys.Revision,
			Label:    c.Graph.Keys.Label,
		},
		Labels: graph.DefaultLabels[string]{
			Vertex:    c.Graph.Labels.Vertex,
			Edge:      c.Graph.Labels.Edge,
			MultiEdge: c.Graph.Labels.MultiEdge,
			HyperEdge: c.Graph.Labels.HyperEdge,
		},
		VertexIDs:    c.idGenerator(),
		EdgeIDs:      c.idGenerator(),
		MultiEdgeIDs: c.idGenerator(),
		HyperEdgeIDs: c.idGenerator(),
	}
}

// SchemaOptions returns the schema section as graph.SchemaOptions.
func (c *Config) SchemaOptions() graph.SchemaOptions[string] {
	return graph.SchemaOptions[string]{
		Label:              c.Schema.Label,
		Strict:             c.Schema.Strict,
		ContinuousLearning: c.Schema.ContinuousLearning,
		EnforceSchema:      c.Schema.EnforceSchema,
	}
}

// Logger builds a logrus logger from the logging section. Invalid values
// fall back to info and text.
func (c *Config) Logger() *logrus.Logger {
	log := logrus.New()
	if lvl, err := logrus.ParseLevel(c.Logging.Level); err == nil {
		log.SetLevel(lvl)
	}
	if strings.EqualFold(c.Logging.Format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

func (c *Config) idGenerator() graph.IDGenerator[string] {
	switch c.Graph.IDGenerator {
	case GeneratorUUID:
		return graph.UUIDs[string]()
	case GeneratorSequence:
		next := graph.Sequence(c.Graph.SequenceStart)
		return func() (string, error) {
			n, err := next()
			if err != nil {
				return "", err
			}
			return strconv.FormatInt(n, 10), nil
		}
	default:
		return graph.NanoIDs[string]()
	}
}

// String returns a one-line summary safe for logs.
func (c *Config) String() string {
	return fmt.Sprintf("Config{IDs: %s, Keys: %s/%s/%s, Schema: %s strict=%v, Parallelism: %d, Log: %s/%s}",
		c.Graph.IDGenerator, c.Graph.Keys.ID, c.Graph.Keys.Revision, c.Graph.Keys.Label,
		c.Schema.Label, c.Schema.Strict, c.Components.Parallelism, c.Logging.Level, c.Logging.Format)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(envPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(envPrefix + key); val != "" {
		if n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(envPrefix + key)
	if val == "" {
		return defaultVal
	}
	return parseBool(val, defaultVal)
}

// parseBool parses a boolean from string with a default value.
func parseBool(s string, defaultVal bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultVal
	}
}

// ExampleConfigYAML documents every setting with its default.
const ExampleConfigYAML = `# propgraph configuration

graph:
  # nanoid, uuid or sequence
  id_generator: nanoid
  sequence_start: 1
  # property keys aliasing an element's id, revision and label
  keys:
    id: Id
    revision: RevId
    label: Label
  # labels used for elements added without one
  labels:
    vertex: Vertex
    edge: Edge
    multi_edge: MultiEdge
    hyper_edge: HyperEdge

schema:
  label: schema
  strict: false
  continuous_learning: false
  enforce_schema: false

components:
  parallelism: 4

logging:
  level: info     # trace, debug, info, warn, error
  format: text    # text or json
`
