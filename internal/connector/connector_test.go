package connector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbsdial/bbsdial/internal/entry"
)

type capturedCall struct {
	name string
	args []string
}

func newCapturingConnector() (*Connector, *capturedCall, *string) {
	call := &capturedCall{}
	opened := new(string)
	c := &Connector{
		run: func(_ context.Context, name string, args ...string) error {
			call.name = name
			call.args = args
			return nil
		},
		openURL: func(rawURL string) error {
			*opened = rawURL
			return nil
		},
	}
	return c, call, opened
}

func TestDialTelnet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		url      string
		wantArgs []string
	}{
		{
			name:     "default port",
			url:      "telnet://heatwave.example.com",
			wantArgs: []string{"heatwave.example.com", "23"},
		},
		{
			name:     "explicit port",
			url:      "telnet://heatwave.example.com:2323",
			wantArgs: []string{"heatwave.example.com", "2323"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, call, _ := newCapturingConnector()
			err := c.Dial(context.Background(), entry.Entry{Name: "Board", URL: tt.url})
			require.NoError(t, err)
			assert.Equal(t, "telnet", call.name)
			assert.Equal(t, tt.wantArgs, call.args)
		})
	}
}

func TestDialSSH(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		url      string
		wantArgs []string
	}{
		{
			name:     "bare host",
			url:      "ssh://secure.example.org",
			wantArgs: []string{"secure.example.org"},
		},
		{
			name:     "user and port",
			url:      "ssh://bbs@secure.example.org:2222",
			wantArgs: []string{"-p", "2222", "bbs@secure.example.org"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, call, _ := newCapturingConnector()
			err := c.Dial(context.Background(), entry.Entry{Name: "Board", URL: tt.url})
			require.NoError(t, err)
			assert.Equal(t, "ssh", call.name)
			assert.Equal(t, tt.wantArgs, call.args)
		})
	}
}

func TestDialHTTPS(t *testing.T) {
	t.Parallel()

	c, call, opened := newCapturingConnector()
	err := c.Dial(context.Background(), entry.Entry{Name: "Web Board", URL: "https://board.example.net/login"})
	require.NoError(t, err)
	assert.Empty(t, call.name, "https must not spawn a subprocess")
	assert.Equal(t, "https://board.example.net/login", *opened)
}

func TestDialUnsupportedScheme(t *testing.T) {
	t.Parallel()

	c, _, _ := newCapturingConnector()
	err := c.Dial(context.Background(), entry.Entry{Name: "Bad", URL: "gopher://gopher.example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported URL scheme")
}
