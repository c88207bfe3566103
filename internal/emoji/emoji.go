package emoji

import "sync/atomic"

// emojiMap holds [emoji, fallback] pairs
var emojiMap = map[string][2]string{
	"error":           {"❌", "[ERR]"},
	"warning":         {"⚠️", "[WRN]"},
	"info":            {"ℹ️", "[INF]"},
	"success":         {"✅", "[OK]"},
	"xray":            {"🩻", "[XR]"},
	"file":            {"📄", "[FILE]"},
	"image":           {"🖼️", "[IMG]"},
	"folder":          {"📁", "[DIR]"},
	"processing":      {"🔬", "[..]"},
	"findings":        {"🔍", "[FND]"},
	"recommendations": {"📋", "[REC]"},
	"metadata":        {"🏷️", "[META]"},
	"confidence":      {"📊", "[CONF]"},
	"research":        {"🧪", "[LAB]"},
	"server":          {"🛰️", "[SRV]"},
	"health":          {"💓", "[HLTH]"},
	"watch":           {"👀", "[WATCH]"},
	"help":            {"❓", "[?]"},
	"door":            {"🚪", "[EXIT]"},
}

var emojiDisabled atomic.Bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled.Store(disabled)
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled.Load()
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled.Load() {
			return mapping[1]
		}
		return mapping[0]
	}
	return "[?]"
}
