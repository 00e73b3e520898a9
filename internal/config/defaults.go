package config

const (
	defaultLibraryDir      = "Songs"
	defaultLedgerFile      = "DEBLOATED.txt"
	defaultHistoryDB       = "~/.local/share/debloat/history.db"
	defaultFFmpeg          = "ffmpeg"
	defaultConvert         = "convert"
	defaultSed             = "sed"
	defaultRm              = "rm"
	defaultVorbisQuality   = 7.0
	defaultJPEGQuality     = 75
	defaultBannerGeometry  = "640x360"
	defaultImageGeometry   = "1280x720"
	defaultHistoryEnabled  = true
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	maxVorbisQuality       = 10.0
	minVorbisQuality       = 0.0
	maxJPEGQuality         = 100
	minJPEGQuality         = 1
	logLevelEnvironmentKey = "DEBLOAT_LOG_LEVEL"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			LedgerFile: defaultLedgerFile,
			HistoryDB:  defaultHistoryDB,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpeg,
			Convert: defaultConvert,
			Sed:     defaultSed,
			Rm:      defaultRm,
		},
		Audio: Audio{
			VorbisQuality: defaultVorbisQuality,
		},
		Image: Image{
			JPEGQuality:     defaultJPEGQuality,
			BannerGeometry:  defaultBannerGeometry,
			DefaultGeometry: defaultImageGeometry,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
