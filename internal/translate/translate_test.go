package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/garyellow/line-menu-bot-go/internal/errors"
)

func TestValidateLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"ja", "ja", false},
		{"EN", "en", false},
		{"zh-hant", "zh-Hant", false},
		{"ko", "ko", false},
		{"fr", "", true},
		{"not a tag!", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ValidateLanguage(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domerrors.ErrUnsupportedLanguage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLabels(t *testing.T) {
	t.Parallel()

	for _, code := range SupportedLanguages {
		assert.NotEmpty(t, Label(code), code)
		assert.NotEmpty(t, EnglishName(code), code)
	}
	assert.Equal(t, "English", EnglishName("en"))
	assert.Equal(t, "Japanese", EnglishName("ja"))
}

func TestTranslationPrompt(t *testing.T) {
	t.Parallel()

	prompt := translationPrompt("hello", "ja")
	assert.Contains(t, prompt, "Japanese (ja)")
	assert.Contains(t, prompt, "\nhello\n")
}
