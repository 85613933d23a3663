package config

import (
	"time"

	"github.com/spf13/viper"
)

// Data represents the data configuration
type Data struct {
	MongoDB *MongoDB
}

// MongoDB holds the connection settings for the task store
type MongoDB struct {
	URI      string
	Database string
	Timeout  time.Duration
}

func getDataConfig(v *viper.Viper) *Data {
	return &Data{
		MongoDB: &MongoDB{
			URI:      getStringOrDefault(v, "data.mongodb.uri", "mongodb://localhost:27017"),
			Database: getStringOrDefault(v, "data.mongodb.database", "remind"),
			Timeout:  getDurationOrDefault(v, "data.mongodb.timeout", 10*time.Second),
		},
	}
}
