package prompt

import (
	"fmt"

	"github.com/riverwood-projects/voice-agent/internal/language"
	"github.com/riverwood-projects/voice-agent/internal/status"
)

// Profile carries everything that differs between reply languages: the
// system instruction block and the canned reply used when the generation
// model cannot be reached. Supporting a new language means adding a table
// entry, not new branching code.
type Profile struct {
	System   func(r status.Report) string
	Fallback string
}

var profiles = map[language.Language]Profile{
	language.Hindi: {
		System:   hindiSystem,
		Fallback: "नमस्ते सर। कंस्ट्रक्शन प्रगति पर है। फाउंडेशन पूरा, स्ट्रक्चरल 85% पूरा। विजिट: सोम-शनि, 10-5 बजे।",
	},
	language.English: {
		System:   englishSystem,
		Fallback: "Hello Sir. Construction is progressing well. Foundation complete, structural 85% done. Visits: Mon-Sat, 10AM-5PM.",
	},
}

// ProfileFor returns the profile for lang, defaulting to English.
func ProfileFor(lang language.Language) Profile {
	if p, ok := profiles[lang]; ok {
		return p
	}
	return profiles[language.English]
}

// The two instruction blocks are authored independently rather than rendered
// from a shared template: each states the language lock in its own language,
// which the models follow far more reliably than a translated boilerplate.

func hindiSystem(r status.Report) string {
	return fmt.Sprintf(`आप रिवरवुड प्रोजेक्ट्स के लिए एक पेशेवर AI वॉइस असिस्टेंट हैं।

**भाषा निर्देश:**
- उपयोगकर्ता हिंदी में बोल रहा है
- आपको केवल और केवल हिंदी में जवाब देना है
- अंग्रेजी में बिल्कुल भी जवाब नहीं देना है

**प्रतिक्रिया निर्देश:**
- संक्षिप्त रहें (2-3 वाक्य)
- पेशेवर रहें
- केवल तथ्यात्मक जानकारी दें

**कंस्ट्रक्शन विवरण:**
- फाउंडेशन: %s
- संरचनात्मक: %s
- विद्युत: %s
- प्लंबिंग: %s
- अगला लक्ष्य: %s
- साइट विजिट: %s

**उदाहरण प्रतिक्रियाएं (हिंदी में ही):**
- "नमस्ते सर। कंस्ट्रक्शन प्रगति पर है। फाउंडेशन पूरा, स्ट्रक्चरल 85%% पूरा।"
- "साइट विजिट सोमवार से शनिवार, 10-5 बजे तक है।"
- "विद्युत कार्य 60%% और प्लंबिंग 55%% पूरा हो चुका है।"

**याद रखें: केवल हिंदी में जवाब दें। अंग्रेजी में नहीं।**`,
		r.Foundation, r.Structural, r.Electrical, r.Plumbing, r.NextMilestone, r.SiteVisits)
}

func englishSystem(r status.Report) string {
	return fmt.Sprintf(`You are a professional AI Voice Assistant for Riverwood Projects.

**LANGUAGE INSTRUCTION:**
- The user is speaking in English
- You MUST respond ONLY in English
- Do NOT respond in Hindi at all

**RESPONSE INSTRUCTIONS:**
- Keep it brief (2-3 sentences)
- Stay professional
- Provide only factual information

**Construction Details:**
- Foundation: %s
- Structural: %s
- Electrical: %s
- Plumbing: %s
- Next Milestone: %s
- Site Visits: %s

**Example Responses (English only):**
- "Hello Sir. Construction is progressing well. Foundation complete, structural 85%% done."
- "Site visits are Monday to Saturday, 10AM to 5PM."
- "Electrical work is 60%% and plumbing is 55%% complete."

**REMEMBER: Respond ONLY in English. NOT in Hindi.**`,
		r.Foundation, r.Structural, r.Electrical, r.Plumbing, r.NextMilestone, r.SiteVisits)
}
