package config

import (
	"strings"

	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

const generatedHeader = `# locmerge configuration
#
# Uncomment and edit the values to change. Every value can also be set
# through the environment as LOCMERGE_<SECTION>_<KEY>.

`

// GenerateConfigContent renders the default configuration with every value
// commented out
func GenerateConfigContent() (string, error) {
	cfg, err := Defaults()
	if err != nil {
		return "", err
	}
	// the cache path resolves per machine, leave it to the default
	cfg.Paths.Cache = ""

	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return generatedHeader + commentOutConfigValues(string(data)), nil
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Keep blank lines as-is
		if trimmed == "" {
			result = append(result, line)
			continue
		}

		// Keep lines that are already comments
		if strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Keep section headers (e.g., [paths], [engine]) as-is
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") && !strings.Contains(trimmed, "=") {
			result = append(result, line)
			continue
		}

		// Comment out configuration value lines
		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
