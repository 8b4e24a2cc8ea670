package configuration

import (
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"
)

// YouTubeOAuthConfig builds the OAuth2 client configuration for the YouTube Data API.
// Placeholder credentials ("YOUR_...") are treated as unset.
func YouTubeOAuthConfig(cfg YouTube) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     configValue(cfg.ClientID),
		ClientSecret: configValue(cfg.ClientSecret),
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			youtube.YoutubeReadonlyScope,
			youtube.YoutubeForceSslScope,
		},
		Endpoint: google.Endpoint,
	}
}

// HasClientCredentials reports whether an OAuth client is configured
func HasClientCredentials(cfg YouTube) bool {
	return configValue(cfg.ClientID) != "" && configValue(cfg.ClientSecret) != ""
}

func configValue(v string) string {
	if strings.HasPrefix(v, "YOUR_") {
		return ""
	}
	return v
}
