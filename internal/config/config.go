package config

import (
	"fmt"
	"os"
	"path/filepath"
)

type Config struct {
	Recognizer  RecognizerConfig  `yaml:"recognizer"`
	Chunking    ChunkingConfig    `yaml:"chunking"`
	Downloader  DownloaderConfig  `yaml:"downloader"`
	LLM         LLMConfig         `yaml:"llm"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type RecognizerConfig struct {
	Backend    string `yaml:"backend"` // whispercpp | openai
	BinaryPath string `yaml:"binary_path"`
	ModelPath  string `yaml:"model_path"`
	Threads    int    `yaml:"threads"`
	Language   string `yaml:"language"`
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
}

type ChunkingConfig struct {
	ChunkDurationSec float64 `yaml:"chunk_duration_sec"`
	FileSizeLimitMB  int64   `yaml:"file_size_limit_mb"`
}

type DownloaderConfig struct {
	CookieFile   string `yaml:"cookie_file"`
	AudioFormat  string `yaml:"audio_format"`
	AudioQuality string `yaml:"audio_quality"`
}

type LLMConfig struct {
	Provider     string   `yaml:"provider"` // openai | gemini
	APIKey       string   `yaml:"api_key"`
	APIKeys      []string `yaml:"api_keys"` // gemini key rotation
	BaseURL      string   `yaml:"base_url"`
	Model        string   `yaml:"model"`
	RateLimitSec int      `yaml:"rate_limit_sec"`
	TimeoutSec   int      `yaml:"timeout_sec"`
}

type PathsConfig struct {
	Data      string `yaml:"data"`
	Downloads string `yaml:"downloads"`
	Temp      string `yaml:"temp"`
	Output    string `yaml:"output"`
	Watch     string `yaml:"watch"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// DBPath returns the SQLite database location under the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.Paths.Data, "app.db")
}

// FileSizeLimitBytes converts the configured MB limit.
func (c *ChunkingConfig) FileSizeLimitBytes() int64 {
	return c.FileSizeLimitMB * 1024 * 1024
}

func (c *Config) Validate() error {
	if c.Recognizer.Backend == "" {
		c.Recognizer.Backend = "whispercpp"
	}
	switch c.Recognizer.Backend {
	case "whispercpp":
		if c.Recognizer.BinaryPath == "" {
			return fmt.Errorf("recognizer.binary_path is required for the whispercpp backend")
		}
		if c.Recognizer.ModelPath == "" {
			return fmt.Errorf("recognizer.model_path is required for the whispercpp backend")
		}
	case "openai":
		if c.Recognizer.APIKey == "" {
			c.Recognizer.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if c.Recognizer.APIKey == "" {
			return fmt.Errorf("recognizer.api_key (or OPENAI_API_KEY) is required for the openai backend")
		}
	default:
		return fmt.Errorf("unknown recognizer backend %q", c.Recognizer.Backend)
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	switch c.LLM.Provider {
	case "openai":
		if c.LLM.APIKey == "" {
			c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm.api_key (or OPENAI_API_KEY) is required for the openai provider")
		}
		if c.LLM.Model == "" {
			c.LLM.Model = "gpt-4o-mini"
		}
	case "gemini":
		if len(c.LLM.APIKeys) == 0 && c.LLM.APIKey != "" {
			c.LLM.APIKeys = []string{c.LLM.APIKey}
		}
		if len(c.LLM.APIKeys) == 0 {
			if key := os.Getenv("GEMINI_API_KEY"); key != "" {
				c.LLM.APIKeys = []string{key}
			}
		}
		if len(c.LLM.APIKeys) == 0 {
			return fmt.Errorf("llm.api_keys (or GEMINI_API_KEY) is required for the gemini provider")
		}
		if c.LLM.Model == "" {
			c.LLM.Model = "gemini-2.5-flash"
		}
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}

	if c.Chunking.ChunkDurationSec == 0 {
		c.Chunking.ChunkDurationSec = 300
	}
	if c.Chunking.FileSizeLimitMB == 0 {
		c.Chunking.FileSizeLimitMB = 25
	}
	if c.Recognizer.Threads == 0 {
		c.Recognizer.Threads = 4
	}
	if c.Downloader.AudioFormat == "" {
		c.Downloader.AudioFormat = "m4a"
	}
	if c.Downloader.AudioQuality == "" {
		c.Downloader.AudioQuality = "192"
	}
	if c.LLM.RateLimitSec == 0 {
		c.LLM.RateLimitSec = 20
	}
	if c.LLM.TimeoutSec == 0 {
		c.LLM.TimeoutSec = 150
	}
	if c.Paths.Data == "" {
		c.Paths.Data = "data"
	}
	if c.Paths.Downloads == "" {
		c.Paths.Downloads = "downloads"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = filepath.Join(c.Paths.Data, "temp")
	}
	if c.Paths.Output == "" {
		c.Paths.Output = filepath.Join(c.Paths.Data, "output")
	}
	if c.Paths.Watch == "" {
		c.Paths.Watch = "watch"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}
