package catalog

import (
	"fmt"
	"strings"
)

const maxNameLength = 100

// shellMetaChars are rejected in catalog-sourced commands. Arguments are
// passed to exec directly, never through a shell, but a catalog entry that
// needs these is malformed and safer to reject at scan time.
const shellMetaChars = "&|><;`$()"

// ValidateName checks a server, plugin, or marketplace identifier:
// alphanumerics, underscore, and hyphen only, at most 100 characters, and no
// leading hyphen (would be parsed as a flag by the target CLI).
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name is empty")
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("name exceeds %d characters", maxNameLength)
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("name must not start with '-'")
	}
	for _, r := range name {
		if !isNameRune(r) {
			return fmt.Errorf("name contains invalid character %q", r)
		}
	}
	return nil
}

func isNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	}
	return false
}

// ValidateURL requires an HTTPS endpoint.
func ValidateURL(url string) error {
	if url == "" {
		return fmt.Errorf("url is empty")
	}
	if !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("url must use https")
	}
	if strings.ContainsAny(url, " \t\n") {
		return fmt.Errorf("url contains whitespace")
	}
	return nil
}

// ValidateCommand rejects commands carrying shell metacharacters.
func ValidateCommand(command string) error {
	if command == "" {
		return fmt.Errorf("command is empty")
	}
	if strings.ContainsAny(command, shellMetaChars) {
		return fmt.Errorf("command contains shell metacharacters")
	}
	return nil
}

// ValidateSource accepts either an HTTPS URL or an owner/repo shorthand.
func ValidateSource(source string) error {
	if source == "" {
		return fmt.Errorf("source is empty")
	}
	if strings.HasPrefix(source, "https://") {
		return ValidateURL(source)
	}
	parts := strings.Split(source, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("source must be an https url or owner/repo")
	}
	for _, part := range parts {
		if err := ValidateName(part); err != nil {
			return fmt.Errorf("source segment %q: %w", part, err)
		}
	}
	return nil
}

// ValidateServer checks every externally sourced field of an MCP server
// definition before it can become a work item.
func ValidateServer(s *McpServer) error {
	if err := ValidateName(s.Name); err != nil {
		return err
	}
	switch s.Transport {
	case TransportHTTP:
		if err := ValidateURL(s.URL); err != nil {
			return err
		}
		if s.Command != "" {
			return fmt.Errorf("http transport must not set command")
		}
	case TransportStdio:
		if err := ValidateCommand(s.Command); err != nil {
			return err
		}
		if s.URL != "" {
			return fmt.Errorf("stdio transport must not set url")
		}
	}
	for _, env := range s.Env {
		if err := ValidateName(env); err != nil {
			return fmt.Errorf("env %q: %w", env, err)
		}
	}
	return nil
}
