package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environments
const ENV_PROD = "prod"
const ENV_LOCAL = "local"

// Redis Config
const REDIS_DB_ADDRESS = "redis:6379"
const REDIS_DB_PASSWORD = ""
const REDIS_DB = 0

// Events refresher config
const EVENTS_REFRESHER_SCHEDULE_MINUTES = 60

// Source data
const GIGS_DATA_URL = ""
const GIGS_DATA_FILE = "shp/merged_venues_events.geojson"
const GIGS_FETCH_TIMEOUT_SECONDS = 10

// Map view (Lexington, KY)
const MAP_ORIGIN_LAT = 38.0406
const MAP_ORIGIN_LNG = -84.5037
const MAP_ORIGIN_ZOOM = 13
const MAP_DETAIL_ZOOM_POINTER = 16
const MAP_DETAIL_ZOOM_TOUCH = 15
const MAP_LEGEND_ZOOM = 16
const MAP_FLY_TO_DURATION_MS = 1500
const MAP_COMPACT_VIEWPORT_WIDTH = 768
const MAP_RESIZE_DEBOUNCE_MS = 250
const MAP_TIMEZONE = "America/New_York"

// Map bounds analysis
const MAP_BOUNDS_MAX_DISTANCE_MILES = 25.0

// Venue geo index
const VENUES_NEARBY_DEFAULT_RADIUS_KM = 5.0

// Asset cache
const ASSET_CACHE_NAME = "gigmap-v1"
const STATIC_DIR = "web"

// ASSETS_TO_CACHE is precached on install.
var ASSETS_TO_CACHE = []string{
	"/",
	"/index.html",
	"/styles.css",
	"/script.js",
	"/fonts/RobotoCondensed-VariableFont_wght.ttf",
	"/fonts/RobotoCondensed-Italic-VariableFont_wght.ttf",
	"/fonts/Archivo-VariableFont_wdth,wght.ttf",
	"/fonts/Archivo-Italic-VariableFont_wdth,wght.ttf",
}

// ASSETS_BYPASS_CACHE holds path fragments that are always served from origin.
var ASSETS_BYPASS_CACHE = []string{
	"merged_venues_events.geojson",
	"lexington_events_time_imperial_modified.csv",
	"/ws",
	"chrome-extension",
}

// Server
const SERVER_ADDR = ":8080"
const SERVER_SHUTDOWN_TIMEOUT_SECONDS = 5

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr        string
	CORSOrigins []string
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SourceConfig describes where the GeoJSON event collection comes from.
// URL wins over File when both are set.
type SourceConfig struct {
	URL          string
	File         string
	FetchTimeout time.Duration
}

// MapConfig holds the fixed viewport parameters.
type MapConfig struct {
	OriginLat         float64
	OriginLng         float64
	OriginZoom        int
	DetailZoomPointer int
	DetailZoomTouch   int
	LegendZoom        int
	FlyToDuration     time.Duration
	CompactWidth      int
	ResizeDebounce    time.Duration
	Location          *time.Location
}

// AssetsConfig holds the asset cache settings.
type AssetsConfig struct {
	CacheName string
	StaticDir string
	Precache  []string
	Bypass    []string
}

// Config holds all application configuration.
type Config struct {
	Env             string
	Server          ServerConfig
	Redis           RedisConfig
	Source          SourceConfig
	Map             MapConfig
	Assets          AssetsConfig
	RefreshInterval time.Duration
}

// LoadConfig reads an optional .env file and then the environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[Config] no .env file loaded: %v", err)
	}

	return &Config{
		Env: getEnv("GIGMAP_ENV", ENV_PROD),
		Server: ServerConfig{
			Addr:        getEnv("SERVER_ADDR", SERVER_ADDR),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", REDIS_DB_ADDRESS),
			Password: getEnv("REDIS_PASSWORD", REDIS_DB_PASSWORD),
			DB:       getEnvInt("REDIS_DB", REDIS_DB),
		},
		Source: SourceConfig{
			URL:          getEnv("GIGS_DATA_URL", GIGS_DATA_URL),
			File:         getEnv("GIGS_DATA_FILE", GetResourcePath(GIGS_DATA_FILE)),
			FetchTimeout: time.Duration(getEnvInt("GIGS_FETCH_TIMEOUT_SECONDS", GIGS_FETCH_TIMEOUT_SECONDS)) * time.Second,
		},
		Map: MapConfig{
			OriginLat:         MAP_ORIGIN_LAT,
			OriginLng:         MAP_ORIGIN_LNG,
			OriginZoom:        MAP_ORIGIN_ZOOM,
			DetailZoomPointer: MAP_DETAIL_ZOOM_POINTER,
			DetailZoomTouch:   MAP_DETAIL_ZOOM_TOUCH,
			LegendZoom:        MAP_LEGEND_ZOOM,
			FlyToDuration:     MAP_FLY_TO_DURATION_MS * time.Millisecond,
			CompactWidth:      MAP_COMPACT_VIEWPORT_WIDTH,
			ResizeDebounce:    MAP_RESIZE_DEBOUNCE_MS * time.Millisecond,
			Location:          loadLocation(getEnv("MAP_TIMEZONE", MAP_TIMEZONE)),
		},
		Assets: AssetsConfig{
			CacheName: getEnv("ASSET_CACHE_NAME", ASSET_CACHE_NAME),
			StaticDir: getEnv("STATIC_DIR", GetResourcePath(STATIC_DIR)),
			Precache:  ASSETS_TO_CACHE,
			Bypass:    ASSETS_BYPASS_CACHE,
		},
		RefreshInterval: time.Duration(getEnvPositiveInt("EVENTS_REFRESHER_SCHEDULE_MINUTES", EVENTS_REFRESHER_SCHEDULE_MINUTES)) * time.Minute,
	}
}

// IsLocal reports whether the server runs in local development.
func (c *Config) IsLocal() bool {
	return c.Env == ENV_LOCAL
}

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	// Check if PROJECT_ROOT is set
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	// Default to the current working directory
	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	return wd
}

func GetResourcePath(resourceFile string) string {
	return filepath.Join(BaseDir(), resourceFile)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[Config] invalid integer for %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvPositiveInt(key string, defaultValue int) int {
	n := getEnvInt(key, defaultValue)
	if n <= 0 {
		log.Printf("[Config] %s must be positive, using %d", key, defaultValue)
		return defaultValue
	}
	return n
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("[Config] unknown time zone %q, falling back to UTC: %v", name, err)
		return time.UTC
	}
	return loc
}
