package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Logger   Logger
	Worker   WorkerConfig
	Clips    ClipsConfig
	Pipeline PipelineConfig
}

type ServerConfig struct {
	AppVersion string
	Port       string
	Mode       string
}

type WorkerConfig struct {
	WorkerCount       int
	QueueSize         int
	MaxCPUUsage       float64
	ResolveTimeoutSec int
	ExtractTimeoutSec int
}

type ClipsConfig struct {
	Dir    string
	TmpDir string
}

type PipelineConfig struct {
	YtdlpBin     string
	FfmpegBin    string
	FfprobeBin   string
	AudioBitrate string
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.Is(err, configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	applyDefaults(&c)
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.Worker.WorkerCount <= 0 {
		c.Worker.WorkerCount = 2
	}
	if c.Worker.QueueSize <= 0 {
		c.Worker.QueueSize = 256
	}
	if c.Worker.MaxCPUUsage <= 0 {
		c.Worker.MaxCPUUsage = 90.0
	}
	if c.Worker.ResolveTimeoutSec <= 0 {
		c.Worker.ResolveTimeoutSec = 600
	}
	if c.Worker.ExtractTimeoutSec <= 0 {
		c.Worker.ExtractTimeoutSec = 300
	}
	if c.Clips.Dir == "" {
		c.Clips.Dir = "clips"
	}
	if c.Clips.TmpDir == "" {
		c.Clips.TmpDir = "tmp"
	}
	if c.Pipeline.YtdlpBin == "" {
		c.Pipeline.YtdlpBin = "yt-dlp"
	}
	if c.Pipeline.FfmpegBin == "" {
		c.Pipeline.FfmpegBin = "ffmpeg"
	}
	if c.Pipeline.FfprobeBin == "" {
		c.Pipeline.FfprobeBin = "ffprobe"
	}
	if c.Pipeline.AudioBitrate == "" {
		c.Pipeline.AudioBitrate = "320k"
	}
}

func (c *WorkerConfig) ResolveTimeout() time.Duration {
	return time.Duration(c.ResolveTimeoutSec) * time.Second
}

func (c *WorkerConfig) ExtractTimeout() time.Duration {
	return time.Duration(c.ExtractTimeoutSec) * time.Second
}
