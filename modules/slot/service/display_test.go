package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestResolveLocale(t *testing.T) {
	assert.Equal(t, language.Vietnamese, ResolveLocale("vi"))
	assert.Equal(t, language.Vietnamese, ResolveLocale("vi-VN,vi;q=0.9,en;q=0.8"))
	assert.Equal(t, language.English, ResolveLocale("en-US"))
	assert.Equal(t, language.English, ResolveLocale("fr-FR"))
	assert.Equal(t, language.English, ResolveLocale(""))
}

func TestFormatDisplay(t *testing.T) {
	assert.Equal(t, "Mon, Jan 15 · 10:00–11:00", FormatDisplay("2024-01-15", "10:00", "11:00", "en"))
	assert.Equal(t, "Thứ 2, 15/01 · 10h00 - 11h30", FormatDisplay("2024-01-15", "10:00", "11:30", "vi"))
	assert.Equal(t, "Chủ nhật, 14/01 · 09h00 - 09h20", FormatDisplay("2024-01-14", "09:00", "09:20", "vi-VN"))
	assert.Equal(t, "bad-date 10:00-11:00", FormatDisplay("bad-date", "10:00", "11:00", "en"))
}
