package services

import (
	"context"

	"github.com/SyedMHaroon/NamazBot/domain"
)

const generalReplyEn = "I can help with:\n" +
	"- Prayer times: 'Fajr time', 'prayer times tomorrow', 'Asr in Dubai'\n" +
	"- Next prayer: 'next prayer'\n" +
	"- Islamic date: 'Islamic date' or 'Hijri date'\n" +
	"- Reminders: 'remind me to read Quran at 21:00'\n" +
	"- Calendar: 'connect my calendar', 'show my events'"

const generalReplyAr = "يمكنني مساعدتك في:\n" +
	"- أوقات الصلاة: 'وقت الفجر'، 'أوقات الصلاة غداً'\n" +
	"- الصلاة القادمة: 'الصلاة القادمة'\n" +
	"- التاريخ الهجري: 'التاريخ الهجري'\n" +
	"- التذكيرات: 'ذكرني بقراءة القرآن الساعة 21:00'\n" +
	"- التقويم: 'اربط تقويمي'، 'اعرض مواعيدي'"

// GeneralReply is the fixed capabilities message
func GeneralReply(lang domain.Language) string {
	if lang == domain.LanguageArabic {
		return generalReplyAr
	}
	return generalReplyEn
}

// GeneralHandler answers everything outside the bot's intents without
// calling the LLM
var GeneralHandler = IntentHandlerFunc(func(ctx context.Context, turn *domain.Turn) string {
	turn.Profile.Overrides.ClearConsumed()
	return GeneralReply(turn.Profile.Language)
})
