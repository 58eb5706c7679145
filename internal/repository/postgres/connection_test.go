package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/angelopoggi/PFSH-Parser/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db.internal",
		Port:     "5432",
		User:     "sync",
		Password: "s3cret",
		DBName:   "pfsh",
		SSLMode:  "require",
	})
	assert.Equal(t, "host=db.internal port=5432 user=sync password=s3cret dbname=pfsh sslmode=require", dsn)
}
