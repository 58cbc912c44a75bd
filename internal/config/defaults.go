package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultReportDir is the default directory scanned for report files
	DefaultReportDir = "."
	// DefaultReportPattern is the default report file name pattern
	DefaultReportPattern = "*.json"
	// DefaultProcessors is the default number of reports processed in parallel
	DefaultProcessors = 4
	// DefaultFormat is the default report format
	DefaultFormat = "auto"
	// DefaultConfigName is the config file name looked up in the project path
	DefaultConfigName = "specline"
	// DefaultLogLevel is the default log level
	DefaultLogLevel = "warn"
	// DefaultLogFormat is the default log encoding
	DefaultLogFormat = "console"
	// EnvPrefix prefixes environment overrides, e.g. SPECLINE_PROCESSORS
	EnvPrefix = "SPECLINE"
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for reports
var DefaultPathsToIgnore = []string{
	"vendor",
	"node_modules",
	".bundle",
	"tmp",
	"log",
}
