package export

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/blogem/intern-timetracker/models"
)

// FilenamePrefix builds "<F>_<LastName>_<YYYY-MM-DD>_<HH-MM-SS>", or "User_..." when
// either name is missing. Date and time are taken in now's location.
func FilenamePrefix(user models.UserInfo, now time.Time) string {
	namePart := "User"
	first := strings.TrimSpace(user.FirstName)
	last := strings.TrimSpace(user.LastName)
	if first != "" && last != "" {
		initial, _ := utf8.DecodeRuneInString(first)
		namePart = string(unicode.ToUpper(initial)) + "_" + last
	}
	return namePart + "_" + now.Format("2006-01-02") + "_" + now.Format("15-04-05")
}
