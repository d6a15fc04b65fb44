package internal

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/applyflow/applyflow_client/internal/api"
	"github.com/applyflow/applyflow_client/internal/application"
	"github.com/applyflow/applyflow_client/internal/auth"
	"github.com/applyflow/applyflow_client/internal/document"
	"github.com/applyflow/applyflow_client/internal/metrics"
	"github.com/applyflow/applyflow_client/internal/ocr"
)

type Config struct {
	API          api.Config         `mapstructure:"api"`
	Auth         auth.Config        `mapstructure:"auth"`
	Applications application.Config `mapstructure:"applications"`
	Documents    document.Config    `mapstructure:"documents"`
	OCR          ocr.Config         `mapstructure:"ocr"`
	Metrics      metrics.Config     `mapstructure:"metrics"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile("files/config.yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}
