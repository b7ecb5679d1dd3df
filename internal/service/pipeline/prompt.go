package pipeline

import "fmt"

// defaultSystemPrompt is used when the tenant has not configured one.
const defaultSystemPrompt = "Ты — вежливый ассистент отеля. Отвечай гостю кратко и по делу, " +
	"только на основе предоставленной информации из документов. " +
	"Если информации недостаточно, попроси гостя уточнить даты заезда и выезда."

const noDocumentsPlaceholder = "Документы пока не загружены"

// composeSystem appends the grounding block to the tenant's system template.
// When the gate rejected the context the model sees the placeholder instead,
// which makes it ask the guest to clarify rather than invent an answer.
func composeSystem(template, context string, contextOK bool) string {
	if template == "" {
		template = defaultSystemPrompt
	}
	grounding := noDocumentsPlaceholder
	if contextOK && context != "" {
		grounding = context
	}
	return fmt.Sprintf("%s\n\nДоступная информация из документов:\n%s", template, grounding)
}
