// Package language defines the closed set of reply languages the assistant
// supports and the per-language instruction handed to the generation model.
package language

// Tag is a supported language code.
type Tag string

const (
	English    Tag = "en"
	Spanish    Tag = "es"
	French     Tag = "fr"
	Italian    Tag = "it"
	Dutch      Tag = "nl"
	German     Tag = "de"
	Danish     Tag = "da"
	Swedish    Tag = "sv"
	Norwegian  Tag = "no"
	DefaultTag     = English
)

var instructions = map[Tag]string{
	English:   "Respond in English",
	Spanish:   "Responde en español",
	French:    "Répondez en français",
	Italian:   "Rispondi in italiano",
	Dutch:     "Antwoord in het Nederlands",
	German:    "Antworte auf Deutsch",
	Danish:    "Svar på dansk",
	Swedish:   "Svara på svenska",
	Norwegian: "Svar på norsk",
}

var names = map[Tag]string{
	English:   "English",
	Spanish:   "Español",
	French:    "Français",
	Italian:   "Italiano",
	Dutch:     "Nederlands",
	German:    "Deutsch",
	Danish:    "Dansk",
	Swedish:   "Svenska",
	Norwegian: "Norsk",
}

// Normalize maps an arbitrary tag to a supported one, falling back to English.
func Normalize(tag string) Tag {
	t := Tag(tag)
	if _, ok := instructions[t]; ok {
		return t
	}
	return DefaultTag
}

// Instruction returns the reply-language instruction for the tag.
func Instruction(tag Tag) string {
	if ins, ok := instructions[tag]; ok {
		return ins
	}
	return instructions[DefaultTag]
}

// Name returns the human-readable name of the language.
func Name(tag Tag) string {
	if n, ok := names[tag]; ok {
		return n
	}
	return names[DefaultTag]
}

// Supported lists all supported tags.
func Supported() []Tag {
	return []Tag{English, Spanish, French, Italian, Dutch, German, Danish, Swedish, Norwegian}
}
