package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	envPort              = "PORT"
	envSSL               = "SSL"
	envFrontendDir       = "FRONTEND_DIR"
	envCaptchaSiteKey    = "CAPTCHA_SITE_KEY"
	envCaptchaSiteSecret = "CAPTCHA_SITE_SECRET"
	envClientID          = "CLIENT_ID"
	envBucketID          = "BUCKET_ID"
	envAPIURL            = "API_URL"
	envJWTSecret         = "JWT_SECRET"
	envUpstreamTimeout   = "UPSTREAM_TIMEOUT"
)

const (
	defaultUpstreamTimeout = 10 * time.Second
	minJWTSecretLength     = 32
)

// Config is the immutable process configuration, constructed once at
// startup and passed by reference into each component. The JWT secret and
// upstream base URL live here; there is no ambient/global access.
type Config struct {
	Port            int
	SSL             bool
	FrontendDir     string
	CaptchaSiteKey  string
	CaptchaSecret   string
	ClientID        string
	BucketID        string
	APIURL          string
	JWTSecret       string
	UpstreamTimeout time.Duration
	Assets          AssetManifest
}

// AssetManifest resolves hashed bundle paths from the frontend build's
// bundles.json.
type AssetManifest struct {
	MainJS     string
	VendorJS   string
	GalleryJS  string
	UploadJS   string
	MainCSS    string
	GalleryCSS string
}

type bundleConfig struct {
	Suffix string `json:"suffix"`
}

// Load builds the configuration from the environment. Every required
// variable missing is an error; nothing falls back silently.
func Load() (*Config, error) {
	port, err := requireInt(envPort)
	if err != nil {
		return nil, err
	}

	frontendDir, err := require(envFrontendDir)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(frontendDir); err != nil {
		return nil, fmt.Errorf("frontend dir does not exist: %s", frontendDir)
	}

	captchaKey, err := require(envCaptchaSiteKey)
	if err != nil {
		return nil, err
	}
	captchaSecret, err := require(envCaptchaSiteSecret)
	if err != nil {
		return nil, err
	}
	clientID, err := require(envClientID)
	if err != nil {
		return nil, err
	}
	bucketID, err := require(envBucketID)
	if err != nil {
		return nil, err
	}
	apiURL, err := require(envAPIURL)
	if err != nil {
		return nil, err
	}
	jwtSecret, err := require(envJWTSecret)
	if err != nil {
		return nil, err
	}
	if len(jwtSecret) < minJWTSecretLength {
		return nil, fmt.Errorf("%s must be at least %d characters", envJWTSecret, minJWTSecretLength)
	}

	timeout := defaultUpstreamTimeout
	if raw := os.Getenv(envUpstreamTimeout); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("%s must be a positive number of seconds", envUpstreamTimeout)
		}
		timeout = time.Duration(secs) * time.Second
	}

	assets, err := loadAssetManifest(frontendDir)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:            port,
		SSL:             os.Getenv(envSSL) == "1",
		FrontendDir:     frontendDir,
		CaptchaSiteKey:  captchaKey,
		CaptchaSecret:   captchaSecret,
		ClientID:        clientID,
		BucketID:        bucketID,
		APIURL:          apiURL,
		JWTSecret:       jwtSecret,
		UpstreamTimeout: timeout,
		Assets:          assets,
	}, nil
}

func require(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s must be set", key)
	}
	return val, nil
}

func requireInt(key string) (int, error) {
	raw, err := require(key)
	if err != nil {
		return 0, err
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid number: %s", key, raw)
	}
	return val, nil
}

func loadAssetManifest(frontendDir string) (AssetManifest, error) {
	contents, err := os.ReadFile(filepath.Join(frontendDir, "bundles.json"))
	if err != nil {
		return AssetManifest{}, fmt.Errorf("failed to read bundles.json: %w", err)
	}

	var bundle bundleConfig
	if err := json.Unmarshal(contents, &bundle); err != nil {
		return AssetManifest{}, fmt.Errorf("failed to parse bundles.json: %w", err)
	}

	return AssetManifest{
		MainJS:     fmt.Sprintf("/assets/bundles/js/main-%s.js", bundle.Suffix),
		VendorJS:   fmt.Sprintf("/assets/bundles/js/vendor-%s.js", bundle.Suffix),
		GalleryJS:  fmt.Sprintf("/assets/bundles/js/gallery-%s.js", bundle.Suffix),
		UploadJS:   fmt.Sprintf("/assets/bundles/js/upload-%s.js", bundle.Suffix),
		MainCSS:    fmt.Sprintf("/assets/bundles/css/main-%s.css", bundle.Suffix),
		GalleryCSS: fmt.Sprintf("/assets/bundles/css/gallery-%s.css", bundle.Suffix),
	}, nil
}
