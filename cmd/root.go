package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	appName   = "hire-nerd"
	envPrefix = "HIRENERD"
)

type Config struct {
	Backend  *BackendConfig  `mapstructure:"backend"`
	Upload   *UploadConfig   `mapstructure:"upload"`
	Schedule *ScheduleConfig `mapstructure:"schedule"`
	Report   *ReportConfig   `mapstructure:"report"`
}

type BackendConfig struct {
	URL string `mapstructure:"url"`
	// Origin is where root-relative report links are served from.
	Origin    string        `mapstructure:"origin"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user-agent"`
	Token     string        `mapstructure:"token"`
	TokenFile string        `mapstructure:"token-file"`
}

type UploadConfig struct {
	JobDescription string   `mapstructure:"job-description"`
	Resumes        []string `mapstructure:"resumes"`
	Consent        bool     `mapstructure:"consent"`
}

type ScheduleConfig struct {
	Interviewers []string `mapstructure:"interviewers"`
	Duration     int      `mapstructure:"duration"`
}

type ReportConfig struct {
	Dir string `mapstructure:"dir"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   appName,
		Short: "hire-nerd is a recruiter console for the HireNerd matching backend",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hire-nerd.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("backend", "", "backend API url (default http://localhost:8000)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("backend.url", rootCmd.PersistentFlags().Lookup("backend"))

	setDefaults()
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults() {
	viper.SetDefault("backend.url", "http://localhost:8000")
	viper.SetDefault("backend.origin", "")
	viper.SetDefault("backend.timeout", 2*time.Minute)
	viper.SetDefault("backend.user-agent", appName+"-console")
	viper.SetDefault("backend.token", "")
	viper.SetDefault("backend.token-file", "")
	viper.SetDefault("upload.job-description", "")
	viper.SetDefault("upload.resumes", []string{})
	viper.SetDefault("upload.consent", false)
	viper.SetDefault("schedule.interviewers", []string{})
	viper.SetDefault("schedule.duration", 30)
	viper.SetDefault("report.dir", ".")
}

func initConfig() {
	if versionCmd.CalledAs() != "" {
		return
	}

	// A missing .env is fine; a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(appName)
		viper.SetConfigType("yaml")
	}

	err := viper.ReadInConfig()
	if err == nil {
		return
	}

	// Without an explicit --config every key has a usable default.
	var notFound viper.ConfigFileNotFoundError
	if cfgFile == "" && errors.As(err, &notFound) {
		return
	}

	log.Fatal(err)
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Backend == nil {
		config.Backend = &BackendConfig{}
	}
	if config.Upload == nil {
		config.Upload = &UploadConfig{}
	}
	if config.Schedule == nil {
		config.Schedule = &ScheduleConfig{}
	}
	if config.Report == nil {
		config.Report = &ReportConfig{}
	}

	if strings.TrimSpace(config.Backend.Origin) == "" {
		config.Backend.Origin = config.Backend.URL
	}

	return config, nil
}
