// Package prompts builds the text sent to the generation service and the fixed,
// translated replies used while collecting candidate details.
package prompts

import "strings"

// Language is an interview language offered to candidates
type Language string

const (
	English Language = "English"
	Hindi   Language = "Hindi"
	Spanish Language = "Spanish"
	French  Language = "French"
	German  Language = "German"
)

// DefaultLanguage is used when no language is selected or a translation is missing
const DefaultLanguage = English

// Languages lists the supported languages in selector order
var Languages = []Language{English, Hindi, Spanish, French, German}

// ParseLanguage matches a language name case-insensitively. Empty input selects the default.
func ParseLanguage(name string) (Language, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultLanguage, true
	}
	for _, lang := range Languages {
		if strings.EqualFold(string(lang), name) {
			return lang, true
		}
	}
	return "", false
}

// Field is a candidate detail collected during info gathering
type Field string

const (
	FieldName       Field = "name"
	FieldEmail      Field = "email"
	FieldPhone      Field = "phone"
	FieldExperience Field = "experience"
	FieldPosition   Field = "position"
	FieldLocation   Field = "location"
)

// Fields is the fixed collection order
var Fields = []Field{FieldName, FieldEmail, FieldPhone, FieldExperience, FieldPosition, FieldLocation}

// Next returns the field collected after f, or false after the last one
func (f Field) Next() (Field, bool) {
	for i, field := range Fields {
		if field == f && i+1 < len(Fields) {
			return Fields[i+1], true
		}
	}
	return "", false
}

const genericInfoPrompt = "Please provide the requested information."

// infoPrompts holds the reply sent after a field is accepted, asking for the next one.
// The location entry introduces the tech stack question.
var infoPrompts = map[Language]map[Field]string{
	English: {
		FieldName:       "Great! Now, could you please provide your email address?",
		FieldEmail:      "Thank you! What's the best phone number to reach you?",
		FieldPhone:      "Perfect! How many years of professional experience do you have?",
		FieldExperience: "Excellent! What position(s) are you interested in applying for?",
		FieldPosition:   "Great choice! Where are you currently located? (City, State/Country)",
		FieldLocation: `Thank you! Now, let's talk about your technical skills.

Please list your tech stack - the programming languages, frameworks, databases, and tools you're proficient in.

For example: "Python, Django, PostgreSQL, Docker, AWS" or "JavaScript, React, Node.js, MongoDB"

What technologies do you work with?`,
	},
	Hindi: {
		FieldName:       "बहुत बढ़िया! अब, क्या आप कृपया अपना ईमेल पता (email address) बता सकते हैं?",
		FieldEmail:      "धन्यवाद! आपसे संपर्क करने के लिए सबसे अच्छा फोन नंबर क्या है?",
		FieldPhone:      "उत्तम! आपके पास कितने वर्षों का पेशेवर अनुभव (experience) है?",
		FieldExperience: "बढ़िया! आप किस पद (position) के लिए आवेदन करना चाहते हैं?",
		FieldPosition:   "बहुत अच्छा! आप वर्तमान में कहाँ स्थित हैं? (शहर, राज्य/देश)",
		FieldLocation: `धन्यवाद! अब, चलिए आपके तकनीकी कौशल (technical skills) के बारे में बात करते हैं।

कृपया अपना टेक स्टैक (tech stack) बताएं - वे प्रोग्रामिंग भाषाएं, फ्रेमवर्क, डेटाबेस और टूल जिनमें आप कुशल हैं।

उदाहरण के लिए: "Python, Django, PostgreSQL, Docker, AWS" या "JavaScript, React, Node.js, MongoDB"

आप किन तकनीकों के साथ काम करते हैं?`,
	},
	Spanish: {
		FieldName:       "¡Genial! Ahora, ¿podrías proporcionar tu dirección de correo electrónico?",
		FieldEmail:      "¡Gracias! ¿Cuál es el mejor número de teléfono para contactarte?",
		FieldPhone:      "¡Perfecto! ¿Cuántos años de experiencia profesional tienes?",
		FieldExperience: "¡Excelente! ¿A qué puesto(s) te interesa aplicar?",
		FieldPosition:   "¡Buena elección! ¿Dónde te encuentras actualmente? (Ciudad, Estado/País)",
		FieldLocation: `¡Gracias! Ahora hablemos de tus habilidades técnicas.

Por favor enumera tu tech stack: los lenguajes de programación, frameworks, bases de datos y herramientas que dominas.

Por ejemplo: "Python, Django, PostgreSQL, Docker, AWS" o "JavaScript, React, Node.js, MongoDB"

¿Con qué tecnologías trabajas?`,
	},
	French: {
		FieldName:       "Super ! Maintenant, pourriez-vous fournir votre adresse e-mail ?",
		FieldEmail:      "Merci ! Quel est le meilleur numéro de téléphone pour vous joindre ?",
		FieldPhone:      "Parfait ! Combien d'années d'expérience professionnelle avez-vous ?",
		FieldExperience: "Excellent ! Pour quel(s) poste(s) souhaitez-vous postuler ?",
		FieldPosition:   "Très bien ! Où êtes-vous actuellement situé ? (Ville, Pays)",
		FieldLocation: `Merci ! Parlons maintenant de vos compétences techniques.

Veuillez énumérer votre stack technique - les langages de programmation, frameworks, bases de données et outils que vous maîtrisez.

Par exemple : "Python, Django, PostgreSQL, Docker, AWS" ou "JavaScript, React, Node.js, MongoDB"

Avec quelles technologies travaillez-vous ?`,
	},
	German: {
		FieldName:       "Großartig! Könnten Sie bitte Ihre E-Mail-Adresse angeben?",
		FieldEmail:      "Danke! Unter welcher Telefonnummer können wir Sie am besten erreichen?",
		FieldPhone:      "Perfekt! Wie viele Jahre Berufserfahrung haben Sie?",
		FieldExperience: "Ausgezeichnet! Für welche Position(en) möchten Sie sich bewerben?",
		FieldPosition:   "Gute Wahl! Wo befinden Sie sich derzeit? (Stadt, Land)",
		FieldLocation: `Danke! Lassen Sie uns nun über Ihre technischen Fähigkeiten sprechen.

Bitte listen Sie Ihren Tech-Stack auf – die Programmiersprachen, Frameworks, Datenbanken und Tools, die Sie beherrschen.

Zum Beispiel: "Python, Django, PostgreSQL, Docker, AWS" oder "JavaScript, React, Node.js, MongoDB"

Mit welchen Technologien arbeiten Sie?`,
	},
}

// InfoPrompt returns the reply sent once field has been accepted.
// Missing languages fall back to English; unknown fields get a generic request.
func InfoPrompt(lang Language, field Field) string {
	table, ok := infoPrompts[lang]
	if !ok {
		table = infoPrompts[DefaultLanguage]
	}
	if text, ok := table[field]; ok {
		return text
	}
	if text, ok := infoPrompts[DefaultLanguage][field]; ok {
		return text
	}
	return genericInfoPrompt
}

var greetingReprompts = map[Language]string{
	English: "Hello! It's great to connect with you. Could you please provide your full name to get started?",
	Hindi:   "नमस्ते! आपसे मिलकर खुशी हुई। कृपया आवेदन शुरू करने के लिए अपना पूरा नाम बताएं?",
	Spanish: "¡Hola! Encantado de conocerte. ¿Podrías escribir tu nombre completo para comenzar?",
	French:  "Bonjour ! Ravi de faire votre connaissance. Pourriez-vous indiquer votre nom complet pour commencer ?",
	German:  "Hallo! Schön, Sie kennenzulernen. Könnten Sie bitte Ihren vollständigen Namen angeben, um zu beginnen?",
}

// GreetingReprompt is the polite reply when a candidate answers the name question with a greeting
func GreetingReprompt(lang Language) string {
	if text, ok := greetingReprompts[lang]; ok {
		return text
	}
	return greetingReprompts[DefaultLanguage]
}
