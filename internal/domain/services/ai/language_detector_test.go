package ai

import (
	"testing"

	"elderguard/pkg/logger"
)

func TestLanguageDetector_Detect(t *testing.T) {
	d := NewLanguageDetector(logger.Nop())

	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", "en"},
		{"english", "Your parcel is waiting", "en"},
		{"hindi", "आपका खाता बंद कर दिया जाएगा", "hi"},
		{"tamil", "உங்கள் கணக்கு முடக்கப்படும்", "ta"},
		{"bengali", "আপনার অ্যাকাউন্ট বন্ধ হবে", "bn"},
		{"malayalam", "നിങ്ങളുടെ അക്കൗണ്ട്", "ml"},
		{"japanese", "口座を確認してください", "ja"},
		{"urdu", "آپ کا اکاؤنٹ بند ہے", "ur"},
		{"mixed mostly hindi", "OTP: आपका कोड है", "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Detect(tt.text); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectTransliteration(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"hinglish", "aap ka account band ho jayega", "hi", true},
		{"tamil", "naan ippadi solren", "ta", true},
		{"telugu", "nenu ledu", "te", true},
		{"bengali", "ami tomader", "bn", true},
		{"bengali with ch reads as hindi", "ami kemon acho", "hi", true},
		{"gujarati", "kyu aaje", "gu", true},
		{"malayalam", "njan alla", "ml", true},
		{"plain english", "Your card is ready", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectTransliteration(tt.text)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("DetectTransliteration(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
