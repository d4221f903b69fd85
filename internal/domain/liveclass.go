package domain

import "time"

type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderZoom   Provider = "zoom"
	ProviderJitsi  Provider = "jitsi"
	ProviderAWS    Provider = "aws"
	ProviderStream Provider = "stream"
)

var Providers = []Provider{ProviderGoogle, ProviderZoom, ProviderJitsi, ProviderAWS, ProviderStream}

func (p Provider) Valid() bool {
	for _, known := range Providers {
		if p == known {
			return true
		}
	}
	return false
}

type LiveClass struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title,omitempty"`
	Course      *Ref      `json:"course,omitempty"`
	Teacher     *Ref      `json:"teacher,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	MeetingLink string    `json:"meeting_link"`
	Provider    Provider  `json:"provider,omitempty"`
	Material    string    `json:"material,omitempty"`
}

// Upcoming reports whether the class has not ended at now.
func (lc LiveClass) Upcoming(now time.Time) bool {
	return lc.EndTime.After(now)
}
