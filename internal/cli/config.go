package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables consulted for flag defaults.
const (
	envTimeout   = "HTTPSREQ_TIMEOUT"
	envUserAgent = "HTTPSREQ_USER_AGENT"
	envInsecure  = "HTTPSREQ_INSECURE"
)

// envDefaults holds the settings read from the environment, after an
// optional .env file in the working directory has been loaded.
type envDefaults struct {
	Timeout   time.Duration
	UserAgent string
	Insecure  bool
}

// loadEnv reads the .env file, if any, without overriding variables that
// are already set, and parses the HTTPSREQ_* defaults.
func loadEnv() (envDefaults, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return envDefaults{}, fmt.Errorf("loading .env: %w", err)
	}

	var env envDefaults

	if v := os.Getenv(envTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return envDefaults{}, fmt.Errorf("invalid %s: %w", envTimeout, err)
		}
		env.Timeout = d
	}

	env.UserAgent = os.Getenv(envUserAgent)

	if v := os.Getenv(envInsecure); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return envDefaults{}, fmt.Errorf("invalid %s: %w", envInsecure, err)
		}
		env.Insecure = b
	}

	return env, nil
}
