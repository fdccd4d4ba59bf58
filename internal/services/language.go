package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/SyedMHaroon/NamazBot/domain"
	"go.uber.org/zap"
)

var arabicRe = regexp.MustCompile(`[\x{0600}-\x{06FF}]`)

const translatePrompt = "Translate the following into clear Modern Standard Arabic. " +
	"Keep numbers and proper nouns as-is. No commentary, no transliteration, no diacritics.\n\n"

// HasArabic reports whether text contains Arabic script
func HasArabic(text string) bool {
	return arabicRe.MatchString(text)
}

// DetectLanguage picks the reply language from the user's own words
func DetectLanguage(text string) domain.Language {
	if HasArabic(text) {
		return domain.LanguageArabic
	}
	return domain.LanguageEnglish
}

// LanguageGate makes sure replies reach Arabic speakers in Arabic
type LanguageGate struct {
	llm    domain.LLM
	logger *zap.Logger
}

// NewLanguageGate creates a new output language gate
func NewLanguageGate(llm domain.LLM, logger *zap.Logger) *LanguageGate {
	return &LanguageGate{llm: llm, logger: logger}
}

// Ensure translates text for Arabic profiles. It never fails: any problem
// returns the text unchanged.
func (g *LanguageGate) Ensure(ctx context.Context, lang domain.Language, text string) string {
	if lang != domain.LanguageArabic || text == "" || HasArabic(text) {
		return text
	}

	out, err := g.llm.Complete(ctx, translatePrompt+text)
	if err != nil {
		g.logger.Warn("translation failed", zap.Error(err))
		return text
	}
	if out = strings.TrimSpace(out); out == "" {
		return text
	}
	return out
}
