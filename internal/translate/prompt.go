package translate

import "fmt"

// translationPrompt asks an LLM for a bare translation with no commentary.
func translationPrompt(text, to string) string {
	return fmt.Sprintf(`Translate the text between the markers into %s (%s).
Reply with the translation only. Do not add quotes, notes or explanations.

<<<
%s
>>>`, EnglishName(to), to, text)
}
