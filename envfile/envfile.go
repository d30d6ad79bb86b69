// Package envfile reads and writes the flat KEY=value configuration files
// used to persist transfer settings between runs.
package envfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Load parses a KEY=value file. The caller decides whether a missing file
// is an error - os.ErrNotExist is returned unwrapped in that case.
func Load(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s (%w)", path, err)
	}

	return values, nil
}

// Apply exports values into the process environment. Variables that are
// already set take precedence over the file.
func Apply(values map[string]string) {
	for k, v := range values {
		if _, ok := os.LookupEnv(k); !ok {
			os.Setenv(k, v)
		}
	}
}

// Save writes one assignment per line, in the order given by keys, UTF-8
// with a trailing newline.
func Save(path string, keys []string, values map[string]string) error {
	var b strings.Builder

	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, values[k])
	}

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("unable to write %s (%w)", path, err)
	}

	return nil
}
