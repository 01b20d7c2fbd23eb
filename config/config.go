// Package config loads the notary client's on-disk configuration, an
// INI file with [wallet], [latency], [security], and [logging] sections
// (spec §6), parsed the way the teacher's lnd.conf is: a flags-tagged
// struct fed through go-flags' ini reader, with command-line flags
// layered on top to override individual keys.
package config

import (
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename = "notaryclient.conf"
	defaultDataDirname    = "data"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "notaryclient.log"

	// DefaultMaxLogFiles is the default number of rotated log files to
	// retain, mirroring the teacher's logging convention.
	DefaultMaxLogFiles = 3
	// DefaultMaxLogFileSize is the default rotation size, in megabytes.
	DefaultMaxLogFileSize = 10
)

// WalletConfig configures the on-disk store a Runtime loads Nyms,
// servers, and asset contracts from.
type WalletConfig struct {
	DataDir string `long:"datadir" description:"directory holding the wallet's bbolt database"`
}

// LatencyConfig configures the message-retry policy (spec §5's "message
// might not be immediately responded to" carve-out).
type LatencyConfig struct {
	RetryInterval  int `long:"retryinterval" description:"seconds between nymbox reconciliation retries"`
	MaxRetries     int `long:"maxretries" description:"number of retries before a sent entry is surfaced to the operator"`
	RequestTimeout int `long:"requesttimeout" description:"seconds to wait for a single transport round trip"`
}

// SecurityConfig holds the [Security] section's master-key settings. The
// keyring package derives keys with its own fixed scrypt parameters, and
// nothing outside this package reads these fields.
type SecurityConfig struct {
	ScryptN         int `long:"scryptn" description:"scrypt CPU/memory cost parameter"`
	ScryptR         int `long:"scryptr" description:"scrypt block size parameter"`
	ScryptP         int `long:"scryptp" description:"scrypt parallelization parameter"`
	MasterKeyTimout int `long:"masterkeytimeout" description:"seconds of inactivity before the master key auto-suspends, 0 disables"`
}

// LoggingConfig configures the package logger fan-out wired up by the
// root package's SetupLoggers.
type LoggingConfig struct {
	LogDir        string `long:"logdir" description:"directory to write rotated log files in"`
	MaxLogFiles   int    `long:"maxlogfiles" description:"number of rotated log files to keep"`
	MaxLogFileMB  int    `long:"maxlogfilesize" description:"rotated log file size cap, in megabytes"`
	Debuglevel    string `long:"debuglevel" description:"one of trace/debug/info/warn/error/critical/off, or subsystem=level pairs comma-separated"`
}

// Config is the fully resolved configuration for one notary client
// instance, assembled from defaults, an INI file, and command-line flags
// in that order of increasing precedence.
type Config struct {
	ConfigFile string `short:"C" long:"configfile" description:"path to configuration file"`

	Wallet   WalletConfig   `group:"Wallet"`
	Latency  LatencyConfig  `group:"Latency"`
	Security SecurityConfig `group:"Security"`
	Logging  LoggingConfig  `group:"Logging"`
}

// Default returns a Config populated with the teacher-style defaults used
// before any file or flag override is applied.
func Default(appDataDir string) *Config {
	return &Config{
		ConfigFile: filepath.Join(appDataDir, defaultConfigFilename),
		Wallet: WalletConfig{
			DataDir: filepath.Join(appDataDir, defaultDataDirname),
		},
		Latency: LatencyConfig{
			RetryInterval:  10,
			MaxRetries:     5,
			RequestTimeout: 30,
		},
		Security: SecurityConfig{
			ScryptN:         1 << 15,
			ScryptR:         8,
			ScryptP:         1,
			MasterKeyTimout: 0,
		},
		Logging: LoggingConfig{
			LogDir:       filepath.Join(appDataDir, defaultLogDirname),
			MaxLogFiles:  DefaultMaxLogFiles,
			MaxLogFileMB: DefaultMaxLogFileSize,
			Debuglevel:   "info",
		},
	}
}

// Load resolves a Config the way the teacher's main does: start from
// Default, parse argv once to find -C/--configfile (ignoring unknown
// flags, since most of argv is meant for the ini pass or the cli command
// tree), read that ini file over the defaults if it exists, then parse
// argv again so command-line flags win over both.
func Load(appDataDir string, argv []string) (*Config, error) {
	cfg := Default(appDataDir)

	preParser := flags.NewParser(cfg, flags.Default|flags.IgnoreUnknown)
	if _, err := preParser.ParseArgs(argv); err != nil {
		return nil, err
	}

	if _, err := os.Stat(cfg.ConfigFile); err == nil {
		fileParser := flags.NewParser(cfg, flags.Default)
		if err := flags.NewIniParser(fileParser).ParseFile(cfg.ConfigFile); err != nil {
			return nil, err
		}
	}

	finalParser := flags.NewParser(cfg, flags.Default)
	if _, err := finalParser.ParseArgs(argv); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LogFilePath returns the full path to the rotated log file named by
// Logging.LogDir.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Logging.LogDir, defaultLogFilename)
}
