package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	server := []string{"-c", "--config", "-a"}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"separate value", []string{"-c", "daybook.json", "-d", "postgres://db"}, []string{"-c", "daybook.json"}},
		{"equals form", []string{"--config=alt.json", "-l", "debug"}, []string{"--config=alt.json"}},
		{"order kept", []string{"--config=1.json", "-a", ":50051", "-c", "2.json"}, []string{"--config=1.json", "-a", ":50051", "-c", "2.json"}},
		{"dash value not consumed", []string{"-c", "--config=x.json"}, []string{"-c", "--config=x.json"}},
		{"trailing flag", []string{"-c"}, []string{"-c"}},
		{"cobra subcommand args", []string{"add", "2024-03-01", "-s", "tea", "--config", "my.json"}, []string{"--config", "my.json"}},
		{"nothing allowed", []string{"sync", "-q"}, []string{}},
		{"empty", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, server))
		})
	}
}

func TestConfigPath(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-c", "/etc/daybook.json"}, "/etc/daybook.json"},
		{[]string{"-config", "/etc/daybook.json"}, "/etc/daybook.json"},
		{[]string{"--config=/etc/daybook.json", "-a", ":8080"}, "/etc/daybook.json"},
		{[]string{"-c", "first.json", "-config", "second.json"}, "second.json"},
		{[]string{"list", "--all"}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConfigPath(tt.args), "%v", tt.args)
	}
}

func TestLookupString(t *testing.T) {
	args := []string{"-a", "localhost:50051", "-env-file", "prod.env"}
	assert.Equal(t, "prod.env", LookupString(args, "env-file"))
	assert.Empty(t, LookupString(args, "missing"))
}
