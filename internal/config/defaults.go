package config

const (
	defaultDataDir                      = "~/.local/share/tubelens"
	defaultLogDir                       = "~/.local/share/tubelens/logs"
	defaultSocket                       = "~/.local/share/tubelens/tubelens.sock"
	defaultLogFormat                    = "auto"
	defaultLogLevel                     = "info"
	defaultYouTubeBaseURL               = "https://www.googleapis.com/youtube/v3"
	defaultYouTubeRequestsPerMinute     = 60
	defaultBrowserCommandTimeoutSeconds = 45
	defaultNotifyRequestTimeout         = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			Socket:  defaultSocket,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		YouTube: YouTube{
			BaseURL:           defaultYouTubeBaseURL,
			RequestsPerMinute: defaultYouTubeRequestsPerMinute,
		},
		Browser: Browser{
			CommandTimeoutSeconds: defaultBrowserCommandTimeoutSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Errors:         true,
		},
	}
}
