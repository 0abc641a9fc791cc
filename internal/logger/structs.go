package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	UseConsoleWriter bool `mapstructure:"useConsoleWriter" toml:"useConsoleWriter" json:"useConsoleWriter"`
}

// LogFile implements a file based logger.
type LogFile struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	Path    string `mapstructure:"path" toml:"path" json:"path"`

	AccessLog        string `mapstructure:"access" toml:"access" json:"access"`
	AccessMaxSize    int    `mapstructure:"accessMaxSize" toml:"accessMaxSize" json:"accessMaxSize"`
	AccessMaxBackups int    `mapstructure:"accessMaxBackups" toml:"accessMaxBackups" json:"accessMaxBackups"`
	AccessMaxAge     int    `mapstructure:"accessMaxAge" toml:"accessMaxAge" json:"accessMaxAge"`

	ErrorLog        string `mapstructure:"error" toml:"error" json:"error"`
	ErrorMaxSize    int    `mapstructure:"errorMaxSize" toml:"errorMaxSize" json:"errorMaxSize"`
	ErrorMaxBackups int    `mapstructure:"errorMaxBackups" toml:"errorMaxBackups" json:"errorMaxBackups"`
	ErrorMaxAge     int    `mapstructure:"errorMaxAge" toml:"errorMaxAge" json:"errorMaxAge"`

	InfoLog        string `mapstructure:"info" toml:"info" json:"info"`
	InfoMaxSize    int    `mapstructure:"infoMaxSize" toml:"infoMaxSize" json:"infoMaxSize"`
	InfoMaxBackups int    `mapstructure:"infoMaxBackups" toml:"infoMaxBackups" json:"infoMaxBackups"`
	InfoMaxAge     int    `mapstructure:"infoMaxAge" toml:"infoMaxAge" json:"infoMaxAge"`

	TraceLog        string `mapstructure:"trace" toml:"trace" json:"trace"`
	TraceMaxSize    int    `mapstructure:"traceMaxSize" toml:"traceMaxSize" json:"traceMaxSize"`
	TraceMaxBackups int    `mapstructure:"traceMaxBackups" toml:"traceMaxBackups" json:"traceMaxBackups"`
	TraceMaxAge     int    `mapstructure:"traceMaxAge" toml:"traceMaxAge" json:"traceMaxAge"`

	WarnLog        string `mapstructure:"warn" toml:"warn" json:"warn"`
	WarnMaxSize    int    `mapstructure:"warnMaxSize" toml:"warnMaxSize" json:"warnMaxSize"`
	WarnMaxBackups int    `mapstructure:"warnMaxBackups" toml:"warnMaxBackups" json:"warnMaxBackups"`
	WarnMaxAge     int    `mapstructure:"warnMaxAge" toml:"warnMaxAge" json:"warnMaxAge"`
}

// Log implements the logger config.
type Log struct {
	LogLevel string `mapstructure:"logLevel" toml:"logLevel" json:"logLevel"` // trace, debug, info, warn, error.
	LogEnv   string `mapstructure:"logEnv" toml:"logEnv" json:"logEnv"`

	// EnableAccessLogToConsole writes the access log to the console as well.
	// Does not overrule Console.Enabled.
	EnableAccessLogToConsole bool `mapstructure:"enableAccessLogToConsole" toml:"enableAccessLogToConsole" json:"enableAccessLogToConsole"` //nolint:lll
	ReportCaller             bool `mapstructure:"reportCaller" toml:"reportCaller" json:"reportCaller"`
	DisableCheckAlive        bool `mapstructure:"disableCheckAlive" toml:"disableCheckAlive" json:"disableCheckAlive"` // do not log /checkalive calls

	AppName     string `mapstructure:"appName" toml:"appName" json:"appName"`
	ServiceName string `mapstructure:"serviceName" toml:"serviceName" json:"serviceName"`

	// Console used mainly for docker and dev.
	Console Console `mapstructure:"console" toml:"console" json:"console"`

	// File enables rolling log files split by level.
	File LogFile `mapstructure:"file" toml:"file" json:"file"`
}
