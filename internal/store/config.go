package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ml-trading-bot/internal/types"
)

type Config struct {
	Account struct {
		Mode string `yaml:"mode"` // PAPER or LIVE
	} `yaml:"account"`
	MarketData struct {
		LookbackDays int    `yaml:"lookback_days"`
		Feed         string `yaml:"feed"`
	} `yaml:"market_data"`
	Sizing struct {
		Mode string `yaml:"mode"` // NOTIONAL or QUANTITY
	} `yaml:"sizing"`
	Model struct {
		Path       string `yaml:"path"`
		OrtLibrary string `yaml:"ort_library"`
	} `yaml:"model"`
	Indicators struct {
		SMAWindows []int   `yaml:"sma_windows"`
		EMAWindows []int   `yaml:"ema_windows"`
		RSIPeriod  int     `yaml:"rsi_period"`
		BBWindow   int     `yaml:"bb_window"`
		BBStdDev   float64 `yaml:"bb_stddev"`
		ATRPeriod  int     `yaml:"atr_period"`
		MACDFast   int     `yaml:"macd_fast"`
		MACDSlow   int     `yaml:"macd_slow"`
		MACDSignal int     `yaml:"macd_signal"`
	} `yaml:"indicators"`
	Log struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"log"`
}

func (c *Config) Validate() error {
	if c.Account.Mode != "PAPER" && c.Account.Mode != "LIVE" {
		return fmt.Errorf("invalid account.mode '%s': must be 'PAPER' or 'LIVE'", c.Account.Mode)
	}
	if c.Sizing.Mode != "NOTIONAL" && c.Sizing.Mode != "QUANTITY" {
		return fmt.Errorf("invalid sizing.mode '%s': must be 'NOTIONAL' or 'QUANTITY'", c.Sizing.Mode)
	}
	if c.MarketData.LookbackDays <= 0 {
		return fmt.Errorf("market_data.lookback_days must be positive, got %d", c.MarketData.LookbackDays)
	}
	if c.Indicators.RSIPeriod <= 0 || c.Indicators.BBWindow <= 0 || c.Indicators.ATRPeriod <= 0 {
		return fmt.Errorf("indicator periods must be positive")
	}
	return nil
}

// SizingMode returns the typed sizing mode. Only valid after Validate.
func (c *Config) SizingMode() types.SizingMode {
	if c.Sizing.Mode == "QUANTITY" {
		return types.SizeByQuantity
	}
	return types.SizeByNotional
}

func (c *Config) Paper() bool { return c.Account.Mode == "PAPER" }

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Account.Mode == "" {
		c.Account.Mode = "PAPER"
	}
	if c.Sizing.Mode == "" {
		c.Sizing.Mode = "NOTIONAL"
	}
	if c.MarketData.LookbackDays == 0 {
		c.MarketData.LookbackDays = 365
	}
	if c.MarketData.Feed == "" {
		c.MarketData.Feed = "iex"
	}
	if len(c.Indicators.SMAWindows) == 0 {
		c.Indicators.SMAWindows = []int{20, 50, 200}
	}
	if len(c.Indicators.EMAWindows) == 0 {
		c.Indicators.EMAWindows = []int{12, 26}
	}
	if c.Indicators.RSIPeriod == 0 {
		c.Indicators.RSIPeriod = 14
	}
	if c.Indicators.BBWindow == 0 {
		c.Indicators.BBWindow = 20
	}
	if c.Indicators.BBStdDev == 0 {
		c.Indicators.BBStdDev = 2.0
	}
	if c.Indicators.ATRPeriod == 0 {
		c.Indicators.ATRPeriod = 14
	}
	if c.Indicators.MACDFast == 0 {
		c.Indicators.MACDFast = 12
	}
	if c.Indicators.MACDSlow == 0 {
		c.Indicators.MACDSlow = 26
	}
	if c.Indicators.MACDSignal == 0 {
		c.Indicators.MACDSignal = 9
	}
	if c.Log.Dir == "" {
		c.Log.Dir = "logs"
	}
}
