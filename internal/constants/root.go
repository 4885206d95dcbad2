package constants

const (
	AppName           = "eternalglow"
	AppDisplayName    = "Eternal Glow"
	AppLink           = "https://eternalglow.app"
	DefaultConfigPath = "~/.config/eternalglow/eternalglow.db"
	Version           = "v0.3.0"

	// StorageKey names the single persisted state blob.
	StorageKey = "user-storage"

	// StateVersion is the current version of the persisted state envelope.
	StateVersion = 1

	// DateFormat is the calendar day format used for once-per-day comparisons (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Keyring users
	KeyringUserDailyImage = "daily-image-api-key"
	KeyringUserTextGen    = "text-generation-api-key"
	KeyringUserImageGen   = "image-generation-api-key"
	KeyringUserDatabase   = "database-connection"
	KeyringUserS3Access   = "s3-access-key-id"
	KeyringUserS3Secret   = "s3-secret-access-key"

	// Share cache constants
	MaxCachedCards      = 14
	ShareCacheDirName   = "share-cards"
	ShareCardFilePrefix = "share_card_"
	ShareCardFileSuffix = ".png"

	// Scene prompt defaults
	DefaultScenePromptCount = 6
)
