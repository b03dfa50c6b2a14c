// Package config defines the application configuration tree. Values load
// from app.json with environment overrides through the config container.
package config

import (
	"fmt"
	"time"
)

// BaseConfig is the root configuration document.
type BaseConfig struct {
	Name        string      `koanf:"name" json:"name"`
	Env         string      `koanf:"env" json:"env"`
	Server      Server      `koanf:"server" json:"server"`
	Auth        Auth        `koanf:"auth" json:"auth"`
	Persistence Persistence `koanf:"persistence" json:"persistence"`
	Gemini      Gemini      `koanf:"gemini" json:"gemini"`
}

// Server holds the HTTP listener settings.
type Server struct {
	Port           int      `koanf:"port" json:"port"`
	AllowedOrigins []string `koanf:"allowed_origins" json:"allowed_origins"`
}

// Auth holds the session and credential settings.
type Auth struct {
	SigningKey          string `koanf:"signing_key" json:"signing_key"`
	TokenExpiration     int    `koanf:"token_expiration" json:"token_expiration"`
	Issuer              string `koanf:"issuer" json:"issuer"`
	Audience            string `koanf:"audience" json:"audience"`
	CookieName          string `koanf:"cookie_name" json:"cookie_name"`
	CookieSecure        bool   `koanf:"cookie_secure" json:"cookie_secure"`
	CookieSameSite      string `koanf:"cookie_same_site" json:"cookie_same_site"`
	GoogleClientID      string `koanf:"google_client_id" json:"google_client_id"`
	GoogleTokeninfoURL  string `koanf:"google_tokeninfo_url" json:"google_tokeninfo_url"`
}

// Persistence holds the database settings.
type Persistence struct {
	Debug                 bool   `koanf:"debug" json:"debug"`
	Driver                string `koanf:"driver" json:"driver"`
	Server                string `koanf:"server" json:"server"`
	Database              string `koanf:"database" json:"database"`
	PingTimeoutExpression string `koanf:"ping_timeout" json:"ping_timeout"`
}

// Gemini holds the generative API settings.
type Gemini struct {
	APIKey string `koanf:"api_key" json:"api_key"`
	Model  string `koanf:"model" json:"model"`
}

func (a BaseConfig) Validate() error {
	if a.Auth.SigningKey == "" {
		return fmt.Errorf("auth.signing_key is required")
	}
	return nil
}

func (a BaseConfig) GetName() string {
	return a.Name
}

func (a BaseConfig) GetEnv() string {
	return a.Env
}

func (a BaseConfig) GetServer() Server {
	return a.Server
}

func (a BaseConfig) GetAuth() Auth {
	return a.Auth
}

func (a BaseConfig) GetPersistence() Persistence {
	return a.Persistence
}

func (a BaseConfig) GetGemini() Gemini {
	return a.Gemini
}

func (s Server) GetPort() int {
	if s.Port == 0 {
		return 9876
	}
	return s.Port
}

func (s Server) GetAllowedOrigins() []string {
	return s.AllowedOrigins
}

func (a Auth) GetSigningKey() string {
	return a.SigningKey
}

// GetTokenExpiration is the token lifetime in hours.
func (a Auth) GetTokenExpiration() int {
	if a.TokenExpiration == 0 {
		return 168
	}
	return a.TokenExpiration
}

func (a Auth) GetIssuer() string {
	return a.Issuer
}

func (a Auth) GetAudience() []string {
	if a.Audience == "" {
		return nil
	}
	return []string{a.Audience}
}

func (a Auth) GetCookieName() string {
	return a.CookieName
}

func (a Auth) GetCookieSecure() bool {
	return a.CookieSecure
}

func (a Auth) GetCookieSameSite() string {
	return a.CookieSameSite
}

func (a Auth) GetGoogleClientID() string {
	return a.GoogleClientID
}

func (a Auth) GetGoogleTokeninfoURL() string {
	return a.GoogleTokeninfoURL
}

func (p Persistence) GetDebug() bool {
	return p.Debug
}

func (p Persistence) GetDriver() string {
	if p.Driver == "" {
		return "sqlite"
	}
	return p.Driver
}

func (p Persistence) GetServer() string {
	return p.Server
}

func (p Persistence) GetDatabase() string {
	return p.Database
}

// GetDSN builds the driver connection string.
func (p Persistence) GetDSN() string {
	if p.Database == "" {
		return "file::memory:?cache=shared"
	}
	return p.Database
}

func (p Persistence) GetOtelIdentifier() string {
	return ""
}

func (p Persistence) GetPingTimeout() time.Duration {
	if p.PingTimeoutExpression == "" {
		return 5 * time.Second
	}
	dur, err := time.ParseDuration(p.PingTimeoutExpression)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", p.PingTimeoutExpression),
		)
	}
	return dur
}

func (g Gemini) GetAPIKey() string {
	return g.APIKey
}

func (g Gemini) GetModel() string {
	if g.Model == "" {
		return "gemini-1.5-flash"
	}
	return g.Model
}
