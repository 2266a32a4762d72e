// Package identity derives a pseudo-device identifier from browser signals.
//
// The identifier is stable for one browser on one machine but changes whenever
// any input signal changes (browser update, new screen, travel across time zones).
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// Signals are the environment values the browser reports
type Signals struct {
	UserAgent      string   `json:"userAgent"`
	Languages      []string `json:"languages"`
	TimezoneOffset int      `json:"timezoneOffset"` // minutes, as Date.getTimezoneOffset reports it
	ScreenHeight   int      `json:"screenHeight"`
	ScreenWidth    int      `json:"screenWidth"`
}

// Fingerprint concatenates the signals in the order the digest is taken over
func (s Signals) Fingerprint() string {
	var b strings.Builder
	b.WriteString(s.UserAgent)
	b.WriteString(strings.Join(s.Languages, ","))
	b.WriteString(strconv.Itoa(s.TimezoneOffset))
	b.WriteString(strconv.Itoa(s.ScreenHeight * s.ScreenWidth))
	return b.String()
}

// DeriveDeviceID returns the lowercase hex SHA-256 of the fingerprint
func DeriveDeviceID(s Signals) string {
	sum := sha256.Sum256([]byte(s.Fingerprint()))
	return hex.EncodeToString(sum[:])
}

// SignalsFromRequest fills in what the HTTP request itself carries.
// Screen geometry and timezone offset are left zero.
func SignalsFromRequest(r *http.Request) Signals {
	return Signals{
		UserAgent: r.UserAgent(),
		Languages: ParseLanguages(r.Header.Get("Accept-Language")),
	}
}

// Merge fills empty fields of s from fallback
func (s Signals) Merge(fallback Signals) Signals {
	if s.UserAgent == "" {
		s.UserAgent = fallback.UserAgent
	}
	if len(s.Languages) == 0 {
		s.Languages = fallback.Languages
	}
	return s
}

// ParseLanguages turns an Accept-Language header into tags ordered by preference
func ParseLanguages(header string) []string {
	if strings.TrimSpace(header) == "" {
		return nil
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return nil
	}
	languages := make([]string, 0, len(tags))
	for _, tag := range tags {
		languages = append(languages, tag.String())
	}
	return languages
}
