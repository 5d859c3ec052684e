package config

// Default values for configuration fields.
const (
	DefaultCatalogBaseURL     = "https://api.spotify.com/v1/"
	DefaultCatalogTokenURL    = "https://accounts.spotify.com/api/token"
	DefaultPageSize           = 40
	DefaultMaxItems           = 200
	DefaultTokenExpirySkew    = 60
	DefaultRequestsPerSecond  = 5.0
	DefaultMaxRetries         = 3
	DefaultRetryBackoffMs     = 500
	DefaultCatalogTimeout     = 15
	DefaultScoringScale       = 100.0
	DefaultThePrefixCredit    = 1.0
	DefaultPartialCredit      = 0.8
	DefaultStoragePath        = "trackmap.db"
	DefaultLockPath           = "trackmap.lock"
	DefaultPlaylistURL        = "https://www.radioparadise.com/xml/playlist.xml"
	DefaultPlaylistTimeout    = 20
	DefaultAPIBind            = "127.0.0.1:8080"
	DefaultMatchingWorkers    = 1
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "console"
	DefaultLogMaxSizeMB       = 10
	DefaultLogMaxBackups      = 3
	DefaultHistoryWindowHours = 1
	MaxHistoryWindowHours     = 24
)

// Default returns a Config populated with default values.
func Default() Config {
	return Config{
		Catalog: Catalog{
			BaseURL:                DefaultCatalogBaseURL,
			TokenURL:               DefaultCatalogTokenURL,
			PageSize:               DefaultPageSize,
			MaxItems:               DefaultMaxItems,
			TokenExpirySkewSeconds: DefaultTokenExpirySkew,
			RequestsPerSecond:      DefaultRequestsPerSecond,
			MaxRetries:             DefaultMaxRetries,
			RetryBackoffMs:         DefaultRetryBackoffMs,
			TimeoutSeconds:         DefaultCatalogTimeout,
		},
		Scoring: Scoring{
			Scale:           DefaultScoringScale,
			ThePrefixCredit: DefaultThePrefixCredit,
			PartialCredit:   DefaultPartialCredit,
		},
		Storage: Storage{
			Path:     DefaultStoragePath,
			LockPath: DefaultLockPath,
		},
		Playlist: Playlist{
			URL:            DefaultPlaylistURL,
			TimeoutSeconds: DefaultPlaylistTimeout,
		},
		API: API{
			Bind:               DefaultAPIBind,
			HistoryWindowHours: DefaultHistoryWindowHours,
		},
		Matching: Matching{
			Workers: DefaultMatchingWorkers,
		},
		Logging: Logging{
			Level:      DefaultLogLevel,
			Format:     DefaultLogFormat,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
		},
	}
}
