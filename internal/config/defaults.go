package config

const (
	defaultVaultDB             = "~/.local/share/princer/princevault.db"
	defaultLogDir              = "~/.local/share/princer/logs"
	defaultAcoustIDBaseURL     = "https://api.acoustid.org/v2"
	defaultFpcalcBinary        = "fpcalc"
	defaultMusicBrainzBaseURL  = "https://musicbrainz.org/ws/2"
	defaultMusicBrainzAgent    = "princer/0.1 (https://github.com/kcverde/princer)"
	defaultMusicBrainzRateMS   = 1000
	defaultMusicBrainzMaxRecs  = 3
	defaultLLMBaseURL          = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel            = "google/gemini-2.5-flash"
	defaultLLMReferer          = "https://github.com/kcverde/princer"
	defaultLLMTitle            = "Prince Song Tagger"
	defaultLLMTimeoutSeconds   = 60
	defaultMatchMinConfidence  = 0.6
	defaultMatchSearchLimit    = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

const defaultSystemPrompt = "You are a Prince music metadata expert. Analyze the provided data sources " +
	"(AcoustID, MusicBrainz, PrinceVault) and return normalized metadata in strict JSON format. " +
	"Prioritize accuracy over guessing. Use Prince-specific knowledge for categories and context. " +
	"Categories: official (commercial releases), live (concerts), outtakes (studio outtakes/demos), " +
	"unofficial (bootleg compilations). Never invent information not supported by the sources."

const defaultUserPromptTemplate = `Normalize metadata for audio file: {filename}
Duration: {duration} seconds
Format: {format}
Bitrate: {bitrate}

CURRENT FILE TAGS:
{current_tags}

AVAILABLE DATA SOURCES:
{acoustid_data}
{musicbrainz_data}
{princevault_data}

Please return normalized metadata in JSON format with these fields:
{
  "title": "song title",
  "artist": "artist name",
  "album": "album name or null",
  "track_number": number or null,
  "year": 4-digit year or null,
  "date": "YYYY-MM-DD or YYYY or null",
  "category": "official/live/outtakes/unofficial",
  "recording_date": "YYYY-MM-DD or descriptive date",
  "venue": "recording location or null",
  "session_info": "session details or null",
  "genre": "music genre or null",
  "comments": "additional context or null",
  "confidence": 0.0-1.0 score
}

Return ONLY valid JSON, no other text.`

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			VaultDB: defaultVaultDB,
			LogDir:  defaultLogDir,
		},
		AcoustID: AcoustID{
			BaseURL:      defaultAcoustIDBaseURL,
			FpcalcBinary: defaultFpcalcBinary,
		},
		MusicBrainz: MusicBrainz{
			BaseURL:      defaultMusicBrainzBaseURL,
			UserAgent:    defaultMusicBrainzAgent,
			RateLimitMS:  defaultMusicBrainzRateMS,
			MaxRecording: defaultMusicBrainzMaxRecs,
		},
		LLM: LLM{
			BaseURL:            defaultLLMBaseURL,
			Model:              defaultLLMModel,
			Referer:            defaultLLMReferer,
			Title:              defaultLLMTitle,
			TimeoutSeconds:     defaultLLMTimeoutSeconds,
			SystemPrompt:       defaultSystemPrompt,
			UserPromptTemplate: defaultUserPromptTemplate,
		},
		Matching: Matching{
			MinConfidence: defaultMatchMinConfidence,
			SearchLimit:   defaultMatchSearchLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
