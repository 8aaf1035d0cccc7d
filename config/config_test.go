package config

import (
	"testing"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		ServerPort:         8288,
		AuthJWTSecret:      "secret",
		AuthAllowedDomains: "acme.com",
		AuthTokenTTLHours:  24,
	}
}

func TestConfig_AllowedDomains(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{name: "single domain", raw: "acme.com", expected: []string{"acme.com"}},
		{name: "trims and lowercases", raw: " ACME.com , @Field.Acme.com ", expected: []string{"acme.com", "field.acme.com"}},
		{name: "skips empty entries", raw: "acme.com,,", expected: []string{"acme.com"}},
		{name: "empty", raw: "", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Config{AuthAllowedDomains: tt.raw}
			assert.Equal(t, tt.expected, c.AllowedDomains())
		})
	}
}

func TestValidateConfig(t *testing.T) {
	log := logger.New("test")

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.ServerPort = 0 }, wantErr: true},
		{name: "missing secret", mutate: func(c *Config) { c.AuthJWTSecret = "" }, wantErr: true},
		{name: "no domains", mutate: func(c *Config) { c.AuthAllowedDomains = " , " }, wantErr: true},
		{name: "bad ttl", mutate: func(c *Config) { c.AuthTokenTTLHours = 0 }, wantErr: true},
		{
			name:    "oss without keys",
			mutate:  func(c *Config) { c.OSSEndpoint = "oss-ap-southeast-1.aliyuncs.com" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			err := validateConfig(c, log)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, c, GetConfig())
		})
	}
}
