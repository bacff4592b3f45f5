package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Transport is the wire transport of an MCP server.
type Transport int

const (
	TransportStdio Transport = iota
	TransportHTTP
)

func (t Transport) String() string {
	if t == TransportHTTP {
		return "http"
	}
	return "stdio"
}

// Scope is the installation breadth for an MCP server: user-wide or tied to
// one project directory.
type Scope int

const (
	ScopeUser Scope = iota
	ScopeLocal
)

func (s Scope) String() string {
	if s == ScopeLocal {
		return "local"
	}
	return "user"
}

// McpServer is one entry from mcp/servers.yaml.
type McpServer struct {
	Name      string
	Transport Transport
	// Command is the stdio launch command, shell-quoted words allowed.
	Command string
	// URL is the endpoint for http transport.
	URL string
	// Env lists environment variable names whose values must be supplied
	// at install time.
	Env []string
	Category string
	Docs     string
	// Installed is annotated from `<cli> mcp list` output; display only.
	Installed bool
	Selected  bool
}

type serverYAML struct {
	Name        string   `yaml:"name"`
	Transport   string   `yaml:"transport"`
	Command     string   `yaml:"command,omitempty"`
	URL         string   `yaml:"url,omitempty"`
	Env         []string `yaml:"env,omitempty"`
	Category    string   `yaml:"category,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

type serversFileYAML struct {
	Servers []serverYAML `yaml:"servers"`
}

// LoadServers parses mcp/servers.yaml. Entries that fail validation are
// returned separately as errors keyed by name so the caller can log them;
// they never become work items.
func LoadServers(path string) ([]McpServer, []error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file serversFileYAML
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var servers []McpServer
	var rejected []error
	for _, s := range file.Servers {
		srv, err := s.toServer()
		if err != nil {
			rejected = append(rejected, fmt.Errorf("server %q: %w", s.Name, err))
			continue
		}
		servers = append(servers, srv)
	}
	return servers, rejected, nil
}

func (s serverYAML) toServer() (McpServer, error) {
	srv := McpServer{
		Name:     s.Name,
		Command:  s.Command,
		URL:      s.URL,
		Env:      s.Env,
		Category: s.Category,
		Docs:     s.Description,
	}

	switch strings.ToLower(s.Transport) {
	case "", "stdio":
		srv.Transport = TransportStdio
	case "http":
		srv.Transport = TransportHTTP
	default:
		return srv, fmt.Errorf("unknown transport %q", s.Transport)
	}

	if err := ValidateServer(&srv); err != nil {
		return srv, err
	}
	return srv, nil
}
