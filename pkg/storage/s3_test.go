package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{"aws default", Config{Provider: ProviderAWS, Region: "eu-west-3"}, "", false},
		{"wasabi region", Config{Provider: ProviderWasabi, Region: "eu-west-3"}, "https://s3.eu-west-3.wasabisys.com", false},
		{"wasabi override", Config{Provider: ProviderWasabi, Endpoint: "https://s3.custom"}, "https://s3.custom", false},
		{"wasabi unknown region", Config{Provider: ProviderWasabi, Region: "mars-1"}, "", true},
		{"custom", Config{Provider: ProviderCustom, Endpoint: "http://minio:9000"}, "http://minio:9000", false},
		{"custom without endpoint", Config{Provider: ProviderCustom}, "", true},
		{"unknown", Config{Provider: "ftp"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.ResolveEndpoint()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
