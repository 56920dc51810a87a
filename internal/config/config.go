// Package config holds the configuration of the civrules tools. A Config is
// built up from defaults, a YAML file, the environment and finally the
// command line, each overriding the ones before it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dekarrin/civrules/internal/catalog"
	"github.com/dekarrin/civrules/internal/logging"
	"github.com/dekarrin/civrules/internal/report"
	"github.com/dekarrin/civrules/internal/store"
	"github.com/dekarrin/civrules/internal/store/inmem"
	"github.com/dekarrin/civrules/internal/store/sqlite"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file read when none is named.
const DefaultFile = "civrules.yaml"

// EnvPrefix starts the name of every environment variable that is read.
const EnvPrefix = "CIVRULES_"

// MinWidth is the narrowest output width that can be configured.
const MinWidth = 20

// DBType is the type of a Database connection.
type DBType string

func (dbt DBType) String() string {
	return string(dbt)
}

const (
	DatabaseNone     DBType = "none"
	DatabaseSQLite   DBType = "sqlite"
	DatabaseInMemory DBType = "inmem"
)

// ParseDBType parses a string found in a connection string into a DBType.
func ParseDBType(s string) (DBType, error) {
	sLower := strings.ToLower(s)

	switch sLower {
	case DatabaseSQLite.String():
		return DatabaseSQLite, nil
	case DatabaseInMemory.String():
		return DatabaseInMemory, nil
	default:
		return DatabaseNone, fmt.Errorf("DB type not one of 'sqlite' or 'inmem': %q", s)
	}
}

// Database contains configuration settings for connecting to the store that
// keeps load reports.
type Database struct {
	// Type is the type of database the config refers to. It also determines
	// which of its other fields are valid.
	Type DBType

	// DataDir is the path on disk to a directory to use to store data in. This
	// is only applicable for certain DB types: SQLite.
	DataDir string
}

// String gives the connection string of db.
func (db Database) String() string {
	if db.DataDir == "" {
		return db.Type.String()
	}
	return db.Type.String() + ":" + db.DataDir
}

// Connect performs all logic needed to connect to the configured DB and
// initialize the store for use.
func (db Database) Connect() (store.Store, error) {
	switch db.Type {
	case DatabaseInMemory:
		return inmem.NewDatastore(), nil
	case DatabaseSQLite:
		st, err := sqlite.NewDatastore(db.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite: %w", err)
		}
		return st, nil
	case DatabaseNone:
		return nil, fmt.Errorf("cannot connect to 'none' DB")
	default:
		return nil, fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// Validate returns an error if the Database does not have the correct fields
// set.
func (db Database) Validate() error {
	switch db.Type {
	case DatabaseInMemory:
		return nil
	case DatabaseSQLite:
		if db.DataDir == "" {
			return fmt.Errorf("DataDir not set to path")
		}
		return nil
	case DatabaseNone:
		return fmt.Errorf("'none' DB is not valid")
	default:
		return fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// UnmarshalYAML reads a Database from its connection string.
func (db *Database) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseDBConnString(s)
	if err != nil {
		return err
	}
	*db = parsed
	return nil
}

// MarshalYAML writes a Database as its connection string.
func (db Database) MarshalYAML() (interface{}, error) {
	return db.String(), nil
}

// ParseDBConnString parses a database connection string of the form
// "engine:params" (or just "engine" if no other params are required) into a
// valid Database config object. For example, "sqlite:/data" would give the DB
// type of DatabaseSQLite that stores persistence in files located in the given
// dir, and "inmem" would give the DB type of DatabaseInMemory.
func ParseDBConnString(s string) (Database, error) {
	var paramStr string
	dbParts := strings.SplitN(s, ":", 2)

	if len(dbParts) == 2 {
		paramStr = strings.TrimSpace(dbParts[1])
	}

	dbEng, err := ParseDBType(strings.TrimSpace(dbParts[0]))
	if err != nil {
		return Database{}, fmt.Errorf("unsupported DB engine: %w", err)
	}

	switch dbEng {
	case DatabaseInMemory:
		if paramStr != "" {
			return Database{}, fmt.Errorf("unsupported param(s) for in-memory DB engine: %s", paramStr)
		}
		return Database{Type: DatabaseInMemory}, nil
	case DatabaseSQLite:
		if paramStr == "" {
			return Database{}, fmt.Errorf("sqlite DB engine requires path to data directory after ':'")
		}
		return Database{Type: DatabaseSQLite, DataDir: paramStr}, nil
	default:
		return Database{}, fmt.Errorf("unknown DB engine: %q", dbEng.String())
	}
}

// Config is the configuration of the civrules tools.
type Config struct {
	// RulesetDir is the directory of the ruleset to load when none is given
	// on the command line.
	RulesetDir string `yaml:"ruleset_dir"`

	// CompatMode allows rulesets of older format versions to be loaded.
	CompatMode bool `yaml:"compat_mode"`

	// Limits override the default catalog capacities. Unset limits keep their
	// defaults.
	Limits catalog.Limits `yaml:"limits"`

	// LogLevel is the lowest level of message that is logged. If not set, it
	// defaults to "info".
	LogLevel string `yaml:"log_level"`

	// LogFormat is "text" or "json". If not set, it defaults to "text".
	LogFormat string `yaml:"log_format"`

	// Width is the number of columns text output is laid out in. If not set,
	// it defaults to 80.
	Width int `yaml:"width"`

	// DB is where load reports are kept. If not set, reports are only kept
	// in memory.
	DB Database `yaml:"db"`
}

// Load reads the Config in the YAML file at path. If path is empty,
// DefaultFile is read if it exists and an empty Config is returned if it
// does not.
func Load(path string) (Config, error) {
	optional := path == ""
	if optional {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	return Parse(data)
}

// Parse parses a Config from YAML.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv returns a new Config identical to cfg but with every value set by
// an environment variable replaced. getenv is usually os.Getenv.
func (cfg Config) ApplyEnv(getenv func(string) string) (Config, error) {
	newCFG := cfg
	env := func(name string) (string, bool) {
		v := getenv(EnvPrefix + name)
		return v, v != ""
	}

	if v, ok := env("RULESET_DIR"); ok {
		newCFG.RulesetDir = v
	}
	if v, ok := env("COMPAT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("%sCOMPAT: %q is not a boolean", EnvPrefix, v)
		}
		newCFG.CompatMode = b
	}
	if v, ok := env("LOG_LEVEL"); ok {
		newCFG.LogLevel = v
	}
	if v, ok := env("LOG_FORMAT"); ok {
		newCFG.LogFormat = v
	}
	if v, ok := env("WIDTH"); ok {
		w, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%sWIDTH: %q is not a number", EnvPrefix, v)
		}
		newCFG.Width = w
	}
	if v, ok := env("DB"); ok {
		db, err := ParseDBConnString(v)
		if err != nil {
			return cfg, fmt.Errorf("%sDB: %w", EnvPrefix, err)
		}
		newCFG.DB = db
	}

	return newCFG, nil
}

// FillDefaults returns a new Config identitical to cfg but with unset values
// set to their defaults.
func (cfg Config) FillDefaults() Config {
	newCFG := cfg

	newCFG.Limits = newCFG.Limits.FillDefaults()
	if newCFG.LogLevel == "" {
		newCFG.LogLevel = "info"
	}
	if newCFG.LogFormat == "" {
		newCFG.LogFormat = logging.FormatText
	}
	if newCFG.Width == 0 {
		newCFG.Width = report.DefaultWidth
	}
	if newCFG.DB.Type == "" || newCFG.DB.Type == DatabaseNone {
		newCFG.DB = Database{Type: DatabaseInMemory}
	}

	return newCFG
}

// Validate returns an error if the Config has invalid field values set. Empty
// and unset values are considered invalid; if defaults are intended to be used,
// call Validate on the return value of FillDefaults.
func (cfg Config) Validate() error {
	if err := cfg.Limits.Validate(); err != nil {
		return fmt.Errorf("limits: %w", err)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if !logging.ValidFormat(cfg.LogFormat) {
		return fmt.Errorf("log_format: must be one of %q or %q, not %q", logging.FormatText, logging.FormatJSON, cfg.LogFormat)
	}
	if cfg.Width < MinWidth {
		return fmt.Errorf("width: must be at least %d, but is %d", MinWidth, cfg.Width)
	}
	if err := cfg.DB.Validate(); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	return nil
}
