package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "FOMC_SCANNER_CONFIG"
	apiKeyEnv     = "ANTHROPIC_API_KEY"
	modelEnv      = "SCORE_MODEL"
	lookbackEnv   = "LOOKBACK_DAYS"
	corpusFileEnv = "CORPUS_FILE"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Fetcher    FetcherConfig    `yaml:"fetcher"`
	Sites      []SiteConfig     `yaml:"sites"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// PipelineConfig describes run defaults and corpus placement.
type PipelineConfig struct {
	LookbackDays   int    `yaml:"lookbackDays"`
	CorpusFile     string `yaml:"corpusFile"`
	StoreTextChars int    `yaml:"storeTextChars"`
}

// ClassifierConfig defines how to contact the scoring model and the
// gateway's concurrency and retry budget.
type ClassifierConfig struct {
	Endpoint           string `yaml:"endpoint"`
	Model              string `yaml:"model"`
	APIKey             string `yaml:"apiKey"`
	MaxTokens          int    `yaml:"maxTokens"`
	Workers            int    `yaml:"workers"`
	MaxAttempts        int    `yaml:"maxAttempts"`
	CallTimeoutSeconds int    `yaml:"callTimeoutSeconds"`
	MaxScoreChars      int    `yaml:"maxScoreChars"`
}

// FetcherConfig tunes the per-speech full-text fetcher.
type FetcherConfig struct {
	TimeoutSeconds int `yaml:"timeoutSeconds"`
	TextChars      int `yaml:"textChars"`
}

// SiteConfig describes a single speech source with its scanner strategy
// and CSS selectors.
type SiteConfig struct {
	SourceID     string `yaml:"sourceId"`
	Scanner      string `yaml:"scanner"`
	ListURL      string `yaml:"listUrl"`
	BaseURL      string `yaml:"baseUrl"`
	ItemSelector string `yaml:"itemSelector"`
	DateSelector string `yaml:"dateSelector"`
}

// Load reads YAML configuration from the path in FOMC_SCANNER_CONFIG (if
// set) and applies environment overrides on top of built-in defaults.
func Load() Config {
	return LoadFile(os.Getenv(configPathEnv))
}

// LoadFile is Load with an explicit config path; an empty path skips the
// file layer.
func LoadFile(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Sites) == 0 {
		cfg.Sites = defaultConfig().Sites
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(apiKeyEnv); v != "" {
		c.Classifier.APIKey = v
	}
	if v := os.Getenv(modelEnv); v != "" {
		c.Classifier.Model = v
	}
	if v := os.Getenv(corpusFileEnv); v != "" {
		c.Pipeline.CorpusFile = v
	}
	if v := os.Getenv(lookbackEnv); v != "" {
		if days, err := strconv.Atoi(v); err != nil {
			log.Printf("config: invalid %s=%q, keeping %d", lookbackEnv, v, c.Pipeline.LookbackDays)
		} else {
			c.Pipeline.LookbackDays = days
		}
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Pipeline.LookbackDays != 0 {
		base.Pipeline.LookbackDays = override.Pipeline.LookbackDays
	}
	if override.Pipeline.CorpusFile != "" {
		base.Pipeline.CorpusFile = override.Pipeline.CorpusFile
	}
	if override.Pipeline.StoreTextChars != 0 {
		base.Pipeline.StoreTextChars = override.Pipeline.StoreTextChars
	}

	if override.Classifier.Endpoint != "" {
		base.Classifier.Endpoint = override.Classifier.Endpoint
	}
	if override.Classifier.Model != "" {
		base.Classifier.Model = override.Classifier.Model
	}
	if override.Classifier.APIKey != "" {
		base.Classifier.APIKey = override.Classifier.APIKey
	}
	if override.Classifier.MaxTokens != 0 {
		base.Classifier.MaxTokens = override.Classifier.MaxTokens
	}
	if override.Classifier.Workers != 0 {
		base.Classifier.Workers = override.Classifier.Workers
	}
	if override.Classifier.MaxAttempts != 0 {
		base.Classifier.MaxAttempts = override.Classifier.MaxAttempts
	}
	if override.Classifier.CallTimeoutSeconds != 0 {
		base.Classifier.CallTimeoutSeconds = override.Classifier.CallTimeoutSeconds
	}
	if override.Classifier.MaxScoreChars != 0 {
		base.Classifier.MaxScoreChars = override.Classifier.MaxScoreChars
	}

	if override.Fetcher.TimeoutSeconds != 0 {
		base.Fetcher.TimeoutSeconds = override.Fetcher.TimeoutSeconds
	}
	if override.Fetcher.TextChars != 0 {
		base.Fetcher.TextChars = override.Fetcher.TextChars
	}

	if len(override.Sites) > 0 {
		base.Sites = override.Sites
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Pipeline: PipelineConfig{
			LookbackDays:   2,
			CorpusFile:     "corpus.json",
			StoreTextChars: 1500,
		},
		Classifier: ClassifierConfig{
			Endpoint:           "https://api.anthropic.com/v1/messages",
			Model:              "claude-sonnet-4-5",
			APIKey:             "",
			MaxTokens:          400,
			Workers:            4,
			MaxAttempts:        3,
			CallTimeoutSeconds: 60,
			MaxScoreChars:      6000,
		},
		Fetcher: FetcherConfig{
			TimeoutSeconds: 30,
			TextChars:      8000,
		},
		Sites: defaultSites(),
	}
}

// defaultSites carries the 13 public speech sources: the Board of
// Governors, the NY Fed, and the eleven other regional Reserve Banks.
func defaultSites() []SiteConfig {
	return []SiteConfig{
		{
			SourceID: "fed_board",
			Scanner:  "board",
			ListURL:  "https://www.federalreserve.gov/newsevents/speeches.htm",
			BaseURL:  "https://www.federalreserve.gov",
		},
		{
			SourceID:     "ny_fed",
			Scanner:      "listpage",
			ListURL:      "https://www.newyorkfed.org/newsevents/speeches",
			BaseURL:      "https://www.newyorkfed.org",
			ItemSelector: "li.ts-list-item, li[class*='speech'], div.ts-item, ul.news-list li",
			DateSelector: "time, span[class*='date'], .date",
		},
		{
			SourceID:     "boston",
			Scanner:      "listpage",
			ListURL:      "https://www.bostonfed.org/news-and-events/speeches.aspx",
			BaseURL:      "https://www.bostonfed.org",
			ItemSelector: "div.speech-list-item, li.speech-item, article.news-item, div[class*='speech']",
			DateSelector: "span.date, time, .speech-date",
		},
		{
			SourceID:     "philadelphia",
			Scanner:      "listpage",
			ListURL:      "https://www.philadelphiafed.org/publications/speeches",
			BaseURL:      "https://www.philadelphiafed.org",
			ItemSelector: "div.publication-listing-item, li.pub-list-item, div[class*='listing']",
			DateSelector: "span.date, time, .pub-date",
		},
		{
			SourceID:     "cleveland",
			Scanner:      "listpage",
			ListURL:      "https://www.clevelandfed.org/collections/speeches",
			BaseURL:      "https://www.clevelandfed.org",
			ItemSelector: "div.collection-item, article.speech, li.speech, div[class*='item']",
			DateSelector: "time, span.date, .article-date",
		},
		{
			SourceID:     "richmond",
			Scanner:      "listpage",
			ListURL:      "https://www.richmondfed.org/press_room/speeches",
			BaseURL:      "https://www.richmondfed.org",
			ItemSelector: "div.pressroom-item, li.speech-list-item, article, div[class*='item']",
			DateSelector: "time, span[class*='date'], .date",
		},
		{
			SourceID:     "atlanta",
			Scanner:      "listpage",
			ListURL:      "https://www.atlantafed.org/news/speeches",
			BaseURL:      "https://www.atlantafed.org",
			ItemSelector: "div.speech-item, li.news-item, article.speech, div[class*='item']",
			DateSelector: "time, span.date, .news-date",
		},
		{
			SourceID:     "chicago",
			Scanner:      "listpage",
			ListURL:      "https://www.chicagofed.org/publications/speeches",
			BaseURL:      "https://www.chicagofed.org",
			ItemSelector: "div.publication-listing, li.speech-item, div[class*='listing']",
			DateSelector: "time, span.date, .pub-date",
		},
		{
			SourceID:     "stlouis",
			Scanner:      "listpage",
			ListURL:      "https://www.stlouisfed.org/from-the-president/speeches-and-presentations",
			BaseURL:      "https://www.stlouisfed.org",
			ItemSelector: "div.news-item, li.speech, article, div[class*='item']",
			DateSelector: "time, span.date, .article-date",
		},
		{
			SourceID:     "minneapolis",
			Scanner:      "listpage",
			ListURL:      "https://www.minneapolisfed.org/speeches",
			BaseURL:      "https://www.minneapolisfed.org",
			ItemSelector: "div.speech-item, li.speech, article.speech, div[class*='item']",
			DateSelector: "time, span.date, .date",
		},
		{
			SourceID:     "kansascity",
			Scanner:      "listpage",
			ListURL:      "https://www.kansascityfed.org/speeches/",
			BaseURL:      "https://www.kansascityfed.org",
			ItemSelector: "div.speech-listing, li.speech-item, article, div[class*='item']",
			DateSelector: "time, span[class*='date'], .date",
		},
		{
			SourceID:     "dallas",
			Scanner:      "listpage",
			ListURL:      "https://www.dallasfed.org/news/speeches",
			BaseURL:      "https://www.dallasfed.org",
			ItemSelector: "div.speech-item, li.item, article.speech, div[class*='item']",
			DateSelector: "time, span.date, .news-date",
		},
		{
			SourceID:     "sanfrancisco",
			Scanner:      "listpage",
			ListURL:      "https://www.frbsf.org/news-and-events/speeches/",
			BaseURL:      "https://www.frbsf.org",
			ItemSelector: "div.speech-item, li.post, article, div[class*='item']",
			DateSelector: "time, span.date, .entry-date",
		},
	}
}
