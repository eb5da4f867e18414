package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string `yaml:"env" env-required:"true"`
	StorageType string `yaml:"storage_type" env-default:"json"`
	StoragePath string `yaml:"storage_path" env-required:"true"`
	HTTPServer  `yaml:"http_server"`
	Uploads     `yaml:"uploads"`
	Recorder    `yaml:"recorder"`
}

type HTTPServer struct {
	Address      string        `yaml:"address" env-default:"localhost:8082"`
	Timeout      time.Duration `yaml:"timeout" env-default:"4s"`
	IddleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	TmpDir       string        `yaml:"tmp_dir" env-default:"./tmp"`
}

type Uploads struct {
	Dir string `yaml:"dir" env-default:"./public/uploads"`
}

type Recorder struct {
	FrameRate     int           `yaml:"frame_rate" env-default:"30"`
	ChunkInterval time.Duration `yaml:"chunk_interval" env-default:"1s"`
	Display       string        `yaml:"display" env-default:":0.0"`
	AudioDevice   string        `yaml:"audio_device" env-default:"default"`
	ServerURL     string        `yaml:"server_url" env-default:"http://localhost:8082"`
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		panic("config path is empty")
	}

	return MustLoadPath(configPath)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

// fetchConfigPath fetches config path from command line flag or environment variable.
// Priority: flag > env > default.
// Default value is empty string.
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
