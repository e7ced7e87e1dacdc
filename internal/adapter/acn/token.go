package acn

import (
	"fmt"
	"os"
	"strings"

	"github.com/voltcurve/evsessions/internal/domain"
)

// TokenPlaceholder is the sentinel written by Bootstrap; a token file holding
// it is treated as unset.
const TokenPlaceholder = "<your_token_here>"

const tokenInstructions = "open %q and replace " + TokenPlaceholder +
	" with your actual token; register at https://ev.caltech.edu/register"

// Bootstrap writes a placeholder token file at path for the operator to fill
// in. It refuses to overwrite an existing file. This is an explicit setup
// operation; the read path never creates files.
func Bootstrap(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("token file %q already exists", path)
	}
	if err := os.WriteFile(path, []byte(TokenPlaceholder+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// LoadToken reads the API token from the single-line file at path. A missing
// file or a placeholder/empty token fails with *domain.ConfigError telling
// the operator what to do.
func LoadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", &domain.ConfigError{
			Reason: fmt.Sprintf("token file %q does not exist; run with -init-token, then "+tokenInstructions, path, path),
		}
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" || token == TokenPlaceholder {
		return "", &domain.ConfigError{
			Reason: fmt.Sprintf("API token is missing or placeholder: "+tokenInstructions, path),
		}
	}
	return token, nil
}
