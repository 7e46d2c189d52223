package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("ENV", "")
	t.Setenv("BASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "http://localhost:5000", cfg.Server.BaseURL)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "inr", cfg.Payment.Currency)
	assert.Equal(t, time.Hour, cfg.Payment.CallbackTTL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestParseDatabaseURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    DatabaseConfig
	}{
		{
			name: "full postgres url",
			url:  "postgres://canteen:pw@db.local:6543/canteen?sslmode=require",
			want: DatabaseConfig{
				Driver:   "postgres",
				URL:      "postgres://canteen:pw@db.local:6543/canteen?sslmode=require",
				Host:     "db.local",
				Port:     6543,
				User:     "canteen",
				Password: "pw",
				DBName:   "canteen",
				SSLMode:  "require",
			},
		},
		{
			name: "default port and sslmode",
			url:  "postgres://u@localhost/app",
			want: DatabaseConfig{
				Driver:  "postgres",
				URL:     "postgres://u@localhost/app",
				Host:    "localhost",
				Port:    5432,
				User:    "u",
				DBName:  "app",
				SSLMode: "disable",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDatabaseURL(tt.url))
		})
	}
}

func TestParseDatabaseConfig_SQLiteURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite3://canteen.db")

	cfg := parseDatabaseConfig()
	assert.Equal(t, "sqlite3", cfg.Driver)
	assert.Equal(t, "canteen.db", cfg.Path)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, splitList(" a:9092, ,b:9092 "))
}
