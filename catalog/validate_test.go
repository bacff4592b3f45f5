package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	t.Run("accepts", func(t *testing.T) {
		for _, name := range []string{"github", "my-server", "a_b_c", "X1", strings.Repeat("a", 100)} {
			assert.NoError(t, ValidateName(name), name)
		}
	})

	t.Run("rejects", func(t *testing.T) {
		cases := map[string]string{
			"empty":          "",
			"leading hyphen": "-flag",
			"space":          "a b",
			"semicolon":      "a;b",
			"slash":          "a/b",
			"dollar":         "a$b",
			"too long":       strings.Repeat("a", 101),
			"unicode":        "sérvér",
		}
		for label, name := range cases {
			assert.Error(t, ValidateName(name), label)
		}
	})
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://api.example.com/mcp"))
	assert.Error(t, ValidateURL(""))
	assert.Error(t, ValidateURL("http://api.example.com"))
	assert.Error(t, ValidateURL("ftp://example.com"))
	assert.Error(t, ValidateURL("https://example.com/a b"))
}

func TestValidateCommand(t *testing.T) {
	assert.NoError(t, ValidateCommand("npx -y some-server --flag value"))
	assert.Error(t, ValidateCommand(""))

	for _, c := range []string{"&", "|", ">", "<", ";", "`", "$", "(", ")"} {
		assert.Error(t, ValidateCommand("npx foo "+c+" bar"), "metachar %q", c)
	}
}

func TestValidateSource(t *testing.T) {
	assert.NoError(t, ValidateSource("https://github.com/owner/repo"))
	assert.NoError(t, ValidateSource("owner/repo"))
	assert.Error(t, ValidateSource(""))
	assert.Error(t, ValidateSource("http://github.com/owner/repo"))
	assert.Error(t, ValidateSource("justaname"))
	assert.Error(t, ValidateSource("a/b/c"))
	assert.Error(t, ValidateSource("owner/"))
	assert.Error(t, ValidateSource("owner/re;po"))
}

func TestValidateServer(t *testing.T) {
	t.Run("http needs a url and no command", func(t *testing.T) {
		assert.NoError(t, ValidateServer(&McpServer{
			Name: "s", Transport: TransportHTTP, URL: "https://x.test",
		}))
		assert.Error(t, ValidateServer(&McpServer{
			Name: "s", Transport: TransportHTTP, URL: "http://x.test",
		}))
		assert.Error(t, ValidateServer(&McpServer{
			Name: "s", Transport: TransportHTTP, URL: "https://x.test", Command: "npx x",
		}))
	})

	t.Run("stdio needs a command and no url", func(t *testing.T) {
		assert.NoError(t, ValidateServer(&McpServer{
			Name: "s", Transport: TransportStdio, Command: "npx x",
		}))
		assert.Error(t, ValidateServer(&McpServer{
			Name: "s", Transport: TransportStdio, Command: "npx x; rm",
		}))
		assert.Error(t, ValidateServer(&McpServer{
			Name: "s", Transport: TransportStdio, Command: "npx x", URL: "https://x.test",
		}))
	})

	t.Run("env names are validated", func(t *testing.T) {
		assert.NoError(t, ValidateServer(&McpServer{
			Name: "s", Transport: TransportStdio, Command: "npx x", Env: []string{"API_KEY"},
		}))
		assert.Error(t, ValidateServer(&McpServer{
			Name: "s", Transport: TransportStdio, Command: "npx x", Env: []string{"API KEY"},
		}))
	})
}
