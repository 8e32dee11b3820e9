package service

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

var (
	supportedLocales = []language.Tag{language.English, language.Vietnamese}
	localeMatcher    = language.NewMatcher(supportedLocales)

	viWeekdays = []string{"Chủ nhật", "Thứ 2", "Thứ 3", "Thứ 4", "Thứ 5", "Thứ 6", "Thứ 7"}
)

// ResolveLocale maps a client locale (BCP 47 tag or Accept-Language value)
// onto the supported set, English when nothing matches.
func ResolveLocale(locale string) language.Tag {
	tag, _ := language.MatchStrings(localeMatcher, locale)
	base, _ := tag.Base()
	if base.String() == "vi" {
		return language.Vietnamese
	}
	return language.English
}

// FormatDisplay renders a window for humans in the given locale.
func FormatDisplay(date, start, end, locale string) string {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return fmt.Sprintf("%s %s-%s", date, start, end)
	}

	if ResolveLocale(locale) == language.Vietnamese {
		return fmt.Sprintf("%s, %s · %s - %s",
			viWeekdays[int(d.Weekday())], d.Format("02/01"),
			hourMark(start), hourMark(end))
	}
	return fmt.Sprintf("%s · %s–%s", d.Format("Mon, Jan 2"), start, end)
}

// hourMark renders 10:30 as 10h30.
func hourMark(hhmm string) string {
	m := ParseTime(hhmm)
	return fmt.Sprintf("%02dh%02d", m/60, m%60)
}
