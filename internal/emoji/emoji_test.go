package emoji

import "testing"

func TestGetEmoji(t *testing.T) {
	t.Cleanup(func() { SetEmojiDisabled(false) })

	SetEmojiDisabled(false)
	if got := GetEmoji("success"); got != "✅" {
		t.Errorf("Expected emoji, got %q", got)
	}

	SetEmojiDisabled(true)
	if !IsEmojiDisabled() {
		t.Fatal("Expected emoji to be disabled")
	}
	if got := GetEmoji("success"); got != "[OK]" {
		t.Errorf("Expected fallback, got %q", got)
	}
	if got := GetEmoji("xray"); got != "[XR]" {
		t.Errorf("Expected fallback, got %q", got)
	}

	if got := GetEmoji("no-such-key"); got != "[?]" {
		t.Errorf("Expected unknown marker, got %q", got)
	}
}

func TestEveryKeyHasFallback(t *testing.T) {
	for key, pair := range emojiMap {
		if pair[0] == "" || pair[1] == "" {
			t.Errorf("Key %q is missing an emoji or fallback", key)
		}
	}
}
