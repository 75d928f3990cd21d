package airtable

import (
	"time"

	"github.com/couchcryptid/vrn-registry/internal/config"
)

// Settings selects and parameterizes the record store endpoint.
type Settings struct {
	PublicViewURL string
	APIBaseURL    string
	Token         string
	BaseID        string
	Table         string
	View          string
	Timeout       time.Duration // zero leaves the transport default
}

// SettingsFromConfig copies the source settings out of the service config.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		PublicViewURL: cfg.AirtablePublicViewURL,
		APIBaseURL:    cfg.AirtableAPIURL,
		Token:         cfg.AirtableToken,
		BaseID:        cfg.AirtableBaseID,
		Table:         cfg.AirtableTable,
		View:          cfg.AirtableView,
		Timeout:       cfg.AirtableTimeout,
	}
}

// Mode is ModeAPI once any API credential is present, otherwise ModePublic.
func (s Settings) Mode() string {
	if s.Token != "" || s.BaseID != "" || s.Table != "" {
		return ModeAPI
	}
	return ModePublic
}

// Missing lists the environment names of absent API credentials.
func (s Settings) Missing() []string {
	var missing []string
	if s.Token == "" {
		missing = append(missing, "AIRTABLE_TOKEN")
	}
	if s.BaseID == "" {
		missing = append(missing, "AIRTABLE_BASE_ID")
	}
	if s.Table == "" {
		missing = append(missing, "AIRTABLE_TABLE")
	}
	return missing
}
