package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// SourceConfig describes how to reach one upstream data source.
type SourceConfig struct {
	URL           string            `yaml:"url"`
	WarmupURL     string            `yaml:"warmup_url"`
	Headers       map[string]string `yaml:"headers"`
	Timeout       time.Duration     `yaml:"timeout"`
	MaxPages      int               `yaml:"max_pages"`
	MinUniqueDays int               `yaml:"min_unique_days"`
	Selectors     []string          `yaml:"selectors"`
}

// LogConfig controls the zap logger and its rotating file sink.
type LogConfig struct {
	Level      string `yaml:"level"`
	FilePath   string `yaml:"file_path"`
	MaxSize    int    `yaml:"max_size"` // megabytes
	MaxAge     int    `yaml:"max_age"`  // days
	MaxBackups int    `yaml:"max_backups"`
	Compress   bool   `yaml:"compress"`
	Console    bool   `yaml:"console"`
}

// RetryConfig feeds collector.RetryPolicy.
type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
}

// Symbol is a display name paired with a Yahoo ticker.
type Symbol struct {
	Name   string `yaml:"name"`
	Ticker string `yaml:"ticker"`
}

// Config holds all application configuration.
type Config struct {
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	Log   LogConfig   `yaml:"log"`
	Retry RetryConfig `yaml:"retry"`
	HTTP  struct {
		UserAgent string        `yaml:"user_agent"`
		Timeout   time.Duration `yaml:"timeout"` // default for gold and silver
	} `yaml:"http"`
	Sources struct {
		FIIDII      SourceConfig `yaml:"fii_dii"`
		Gold        SourceConfig `yaml:"gold"`
		Silver      SourceConfig `yaml:"silver"`
		News        SourceConfig `yaml:"news"`
		OptionChain SourceConfig `yaml:"option_chain"`
		Yahoo       SourceConfig `yaml:"yahoo"`
	} `yaml:"sources"`
	Report struct {
		Sections       []string `yaml:"sections"`
		NiftyTicker    string   `yaml:"nifty_ticker"`
		VIXTicker      string   `yaml:"vix_ticker"`
		Constituents   []string `yaml:"constituents"`
		GlobalIndices  []Symbol `yaml:"global_indices"`
		Currencies     []Symbol `yaml:"currencies"`
		MoversTop      int      `yaml:"movers_top"`
		NewsLimit      int      `yaml:"news_limit"`
		NewsExclude    []string `yaml:"news_exclude"`
		FlowWindows    []int    `yaml:"flow_windows"`
		FlowRecentDays int      `yaml:"flow_recent_days"`
		MetalDays      int      `yaml:"metal_days"`
		LevelLookback  int      `yaml:"level_lookback"`
		LevelBand      float64  `yaml:"level_band"`
	} `yaml:"report"`
	PCR struct {
		HistoryFile string `yaml:"history_file"`
	} `yaml:"pcr"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
		// SendDocuments uploads PDF and DOCX artifacts after a scheduled run.
		SendDocuments bool `yaml:"send_documents"`
	} `yaml:"telegram"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
		PCRCron   string `yaml:"pcr_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error; defaults cover every field.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("PCR_HISTORY_FILE"); v != "" {
		cfg.PCR.HistoryFile = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("CRON_PCR"); v != "" {
		cfg.Schedule.PCRCron = v
	}
	if v := os.Getenv("RETRY_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Retry.MaxAttempts = n
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "CodeOutput"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.FilePath == "" {
		cfg.Log.FilePath = "logs/bulletin.log"
	}
	if cfg.Log.MaxSize == 0 {
		cfg.Log.MaxSize = 50
	}
	if cfg.Log.MaxAge == 0 {
		cfg.Log.MaxAge = 14
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = 5
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = 3
	}
	if cfg.Retry.InitialDelay == 0 {
		cfg.Retry.InitialDelay = 2 * time.Second
	}
	if cfg.HTTP.UserAgent == "" {
		cfg.HTTP.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	}
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = 15 * time.Second
	}

	s := &cfg.Sources
	defaultSource(&s.FIIDII, "https://groww.in/fii-dii-data", 20*time.Second)
	if s.FIIDII.MaxPages == 0 {
		s.FIIDII.MaxPages = 4
	}
	if s.FIIDII.MinUniqueDays == 0 {
		s.FIIDII.MinUniqueDays = 10
	}
	defaultSource(&s.Gold, "https://www.goodreturns.in/gold-rates/chennai.html", cfg.HTTP.Timeout)
	defaultSource(&s.Silver, "https://www.goodreturns.in/silver-rates/chennai.html", cfg.HTTP.Timeout)
	defaultSource(&s.News, "https://www.moneycontrol.com/news/business/markets/", 20*time.Second)
	if s.News.WarmupURL == "" {
		s.News.WarmupURL = "https://www.moneycontrol.com/"
	}
	if len(s.News.Selectors) == 0 {
		s.News.Selectors = []string{"ul#cagetory", "ul.article_listing", "div.article-list"}
	}
	defaultSource(&s.OptionChain, "https://www.nseindia.com/api/option-chain-indices?symbol=NIFTY", 30*time.Second)
	if s.OptionChain.WarmupURL == "" {
		s.OptionChain.WarmupURL = "https://www.nseindia.com/option-chain"
	}
	defaultSource(&s.Yahoo, "https://query1.finance.yahoo.com/v8/finance/chart/", 10*time.Second)

	r := &cfg.Report
	if r.NiftyTicker == "" {
		r.NiftyTicker = "^NSEI"
	}
	if r.VIXTicker == "" {
		r.VIXTicker = "^INDIAVIX"
	}
	if len(r.Constituents) == 0 {
		r.Constituents = DefaultNifty50
	}
	if len(r.GlobalIndices) == 0 {
		r.GlobalIndices = []Symbol{
			{Name: "Dow Jones", Ticker: "^DJI"},
			{Name: "Nasdaq", Ticker: "^IXIC"},
			{Name: "S&P 500", Ticker: "^GSPC"},
			{Name: "Hang Seng", Ticker: "^HSI"},
			{Name: "FTSE 100", Ticker: "^FTSE"},
		}
	}
	if len(r.Currencies) == 0 {
		r.Currencies = []Symbol{
			{Name: "USD", Ticker: "USDINR=X"},
			{Name: "JPY", Ticker: "JPYINR=X"},
			{Name: "EUR", Ticker: "EURINR=X"},
			{Name: "SGD", Ticker: "SGDINR=X"},
			{Name: "GBP", Ticker: "GBPINR=X"},
			{Name: "AED", Ticker: "AEDINR=X"},
		}
	}
	if r.MoversTop == 0 {
		r.MoversTop = 5
	}
	if r.NewsLimit == 0 {
		r.NewsLimit = 10
	}
	if r.NewsExclude == nil {
		r.NewsExclude = []string{"moneycontrol"}
	}
	if len(r.FlowWindows) == 0 {
		r.FlowWindows = []int{7, 10}
	}
	if r.FlowRecentDays == 0 {
		r.FlowRecentDays = 3
	}
	if r.MetalDays == 0 {
		r.MetalDays = 10
	}
	if r.LevelLookback == 0 {
		r.LevelLookback = 15
	}
	if r.LevelBand == 0 {
		r.LevelBand = 0.005
	}

	if cfg.PCR.HistoryFile == "" {
		cfg.PCR.HistoryFile = "data/pcr_history.csv"
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 30 8 * * 1-5"
	}
	if cfg.Schedule.PCRCron == "" {
		cfg.Schedule.PCRCron = "0 45 15 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/market_bulletin.db"
	}
}

func defaultSource(s *SourceConfig, url string, timeout time.Duration) {
	if s.URL == "" {
		s.URL = url
	}
	if s.Timeout == 0 {
		s.Timeout = timeout
	}
}

// Validate checks that configured values are usable.
func (c *Config) Validate() error {
	if c.Retry.MaxAttempts < 1 || c.Retry.MaxAttempts > 3 {
		return fmt.Errorf("retry.max_attempts must be between 1 and 3, got %d", c.Retry.MaxAttempts)
	}
	if c.Sources.FIIDII.MaxPages < 1 {
		return fmt.Errorf("sources.fii_dii.max_pages must be positive")
	}
	for _, w := range c.Report.FlowWindows {
		if w <= 0 {
			return fmt.Errorf("report.flow_windows entries must be positive, got %d", w)
		}
	}
	if c.Report.LevelBand < 0 || c.Report.LevelBand >= 1 {
		return fmt.Errorf("report.level_band must be in [0,1), got %v", c.Report.LevelBand)
	}
	for name, s := range map[string]SourceConfig{
		"fii_dii":      c.Sources.FIIDII,
		"gold":         c.Sources.Gold,
		"silver":       c.Sources.Silver,
		"news":         c.Sources.News,
		"option_chain": c.Sources.OptionChain,
		"yahoo":        c.Sources.Yahoo,
	} {
		if s.Timeout < time.Second || s.Timeout > 60*time.Second {
			return fmt.Errorf("sources.%s.timeout must be between 1s and 60s, got %v", name, s.Timeout)
		}
	}
	return nil
}

// TelegramEnabled reports whether both bot credentials are present.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
