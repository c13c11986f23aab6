package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Solver SolverConfig
	Output OutputConfig
}

// SolverConfig holds solver configuration
type SolverConfig struct {
	Backend string
	Timeout time.Duration
}

// OutputConfig holds output configuration
type OutputConfig struct {
	Verbose bool
	DIMACS  string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Solver: SolverConfig{
			Backend: getEnv("CPS2_SOLVER", "gini"),
			Timeout: getEnvDuration("CPS2_TIMEOUT", 5*time.Minute),
		},
		Output: OutputConfig{
			Verbose: getEnvBool("CPS2_VERBOSE", false),
			DIMACS:  getEnv("CPS2_DIMACS", ""),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// String returns a string representation of the config
func (c *Config) String() string {
	dimacs := c.Output.DIMACS
	if dimacs == "" {
		dimacs = "-"
	}
	return fmt.Sprintf("solver=%s timeout=%s verbose=%t dimacs=%s",
		c.Solver.Backend, c.Solver.Timeout, c.Output.Verbose, dimacs)
}
