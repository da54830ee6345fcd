package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/your-org/shapelet-transform/internal/distance"
	"github.com/your-org/shapelet-transform/internal/errdefs"
	"github.com/your-org/shapelet-transform/internal/quality"
	"github.com/your-org/shapelet-transform/internal/search"
	"github.com/your-org/shapelet-transform/internal/shapelet"
)

// Dataset sources.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config defines the structure for all application configuration.
type Config struct {
	LogLevel   string         `yaml:"log_level"`
	Shapelet   ShapeletConf   `yaml:"shapelet"`
	Transform  TransformConf  `yaml:"transform"`
	Classifier ClassifierConf `yaml:"classifier"`
	Dataset    DatasetConf    `yaml:"dataset"`
	Output     OutputConf     `yaml:"output"`
	Database   DatabaseConf   `yaml:"database"`
}

// ShapeletConf holds the search parameters. Strategies are given by name.
type ShapeletConf struct {
	K             int      `yaml:"k"`
	MinLength     int      `yaml:"min_length"`
	MaxLength     int      `yaml:"max_length"`
	MaxIterations int      `yaml:"max_iterations"`
	MinDist       float64  `yaml:"min_dist"`
	Filter        string   `yaml:"filter"`
	Quality       string   `yaml:"quality"`
	Distance      string   `yaml:"distance"`
	Type          string   `yaml:"type"`
	TimeBudget    Duration `yaml:"time_budget"`
	Seed          int64    `yaml:"seed"`
	Workers       int      `yaml:"workers"`
	BatchSize     int      `yaml:"batch_size"`
}

// TransformConf holds configuration for the feature transform.
type TransformConf struct {
	Normalize FlexBool `yaml:"normalize"`
	Workers   int      `yaml:"workers"`
}

// ClassifierConf holds configuration for the downstream classifier.
type ClassifierConf struct {
	Neighbors int `yaml:"neighbors"`
}

// DatasetConf tells where the training and test series come from.
type DatasetConf struct {
	Source    string `yaml:"source"` // "csv" or "postgres"
	TrainPath string `yaml:"train_path"`
	TestPath  string `yaml:"test_path"`
	// Train and Test name datasets in the series_channels table.
	Train string `yaml:"train"`
	Test  string `yaml:"test"`
}

// OutputConf holds configuration for the feature table export.
type OutputConf struct {
	Path      string `yaml:"path"`
	Precision int32  `yaml:"precision"`
}

// DatabaseConf holds the PostgreSQL connection settings.
type DatabaseConf struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"-"` // Loaded from env
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the connection URL for the database.
func (d DatabaseConf) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, d.Port),
		Path:   d.Name,
	}
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	u.RawQuery = url.Values{"sslmode": {sslmode}}.Encode()
	return u.String()
}

func defaults() *Config {
	p := search.DefaultParams()
	return &Config{
		LogLevel: "info",
		Shapelet: ShapeletConf{
			K:             p.K,
			MinLength:     p.MinLength,
			MaxLength:     p.MaxLength,
			MaxIterations: p.MaxIterations,
			MinDist:       p.MinDist,
			Filter:        p.Filter.String(),
			Quality:       p.Quality.String(),
			Distance:      p.Distance.String(),
			Type:          p.Type.String(),
			TimeBudget:    Duration(p.TimeBudget),
		},
		Classifier: ClassifierConf{Neighbors: 1},
		Dataset:    DatasetConf{Source: SourceCSV},
		Output:     OutputConf{Precision: 6},
		Database:   DatabaseConf{Host: "localhost", Port: "5432"},
	}
}

// LoadConfig loads configuration from the specified YAML file path
// and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	cfg := defaults()

	// Read YAML file
	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(file, cfg)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv loads secrets and overrides from environment variables.
func (c *Config) applyEnv() error {
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.LogLevel = logLevel
	}
	if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
		c.Database.Host = dbHost
	}
	if dbPort := os.Getenv("DB_PORT"); dbPort != "" {
		c.Database.Port = dbPort
	}
	if dbUser := os.Getenv("DB_USER"); dbUser != "" {
		c.Database.User = dbUser
	}
	if dbPassword := os.Getenv("DB_PASSWORD"); dbPassword != "" {
		c.Database.Password = dbPassword
	}
	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		c.Database.Name = dbName
	}
	if budget := os.Getenv("SHAPELET_TIME_BUDGET"); budget != "" {
		d, err := parseDuration(budget)
		if err != nil {
			return fmt.Errorf("SHAPELET_TIME_BUDGET: %v: %w", err, errdefs.ErrInvalidConfiguration)
		}
		c.Shapelet.TimeBudget = Duration(d)
	}
	if seed := os.Getenv("SHAPELET_SEED"); seed != "" {
		s, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return fmt.Errorf("SHAPELET_SEED %q is not an integer: %w", seed, errdefs.ErrInvalidConfiguration)
		}
		c.Shapelet.Seed = s
	}
	return nil
}

// Validate checks the configuration as a whole and reports every problem.
func (c *Config) Validate() error {
	_, err := c.ShapeletParams()

	switch c.Dataset.Source {
	case SourceCSV:
		if c.Dataset.TrainPath == "" {
			err = multierr.Append(err, fmt.Errorf("dataset.train_path is required for the csv source: %w", errdefs.ErrInvalidConfiguration))
		}
	case SourcePostgres:
		if c.Dataset.Train == "" {
			err = multierr.Append(err, fmt.Errorf("dataset.train is required for the postgres source: %w", errdefs.ErrInvalidConfiguration))
		}
		if c.Database.Name == "" {
			err = multierr.Append(err, fmt.Errorf("database.name is required for the postgres source: %w", errdefs.ErrInvalidConfiguration))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown dataset source %q: %w", c.Dataset.Source, errdefs.ErrInvalidConfiguration))
	}
	if c.Output.Precision < 0 || c.Output.Precision > 15 {
		err = multierr.Append(err, fmt.Errorf("output.precision must be within [0,15], got %d: %w", c.Output.Precision, errdefs.ErrInvalidConfiguration))
	}
	if c.Classifier.Neighbors < 1 {
		err = multierr.Append(err, fmt.Errorf("classifier.neighbors must be at least 1, got %d: %w", c.Classifier.Neighbors, errdefs.ErrInvalidConfiguration))
	}
	return err
}

// ShapeletParams converts the shapelet section into validated search
// parameters.
func (c *Config) ShapeletParams() (search.Params, error) {
	s := c.Shapelet
	p := search.Params{
		K:             s.K,
		MinLength:     s.MinLength,
		MaxLength:     s.MaxLength,
		MaxIterations: s.MaxIterations,
		MinDist:       s.MinDist,
		TimeBudget:    s.TimeBudget.Std(),
		Seed:          s.Seed,
		Workers:       s.Workers,
		BatchSize:     s.BatchSize,
	}

	var err, e error
	if p.Filter, e = search.ParseFilter(s.Filter); e != nil {
		err = multierr.Append(err, e)
	}
	if p.Quality, e = quality.ParseStrategy(s.Quality); e != nil {
		err = multierr.Append(err, e)
	}
	if p.Distance, e = distance.ParseStrategy(s.Distance); e != nil {
		err = multierr.Append(err, e)
	}
	if p.Type, e = shapelet.ParseType(s.Type); e != nil {
		err = multierr.Append(err, e)
	}
	if err != nil {
		return search.Params{}, err
	}
	if err := p.Validate(); err != nil {
		return search.Params{}, err
	}
	return p, nil
}
