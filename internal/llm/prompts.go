package llm

import (
	"fmt"
	"strings"
)

// SystemPrompt restricts the model to the story text and a bare answer.
const SystemPrompt = "You are an expert in reading comprehension. Answer the following question based ONLY on the text provided in the story. Provide only the answer, without any introductory phrases or explanations."

const questionPrompt = `Please read the following story and answer the subsequent question.

--- STORY ---
%s
--- END OF STORY ---

Question: %s`

// QuestionPrompt frames one question about a story, one sentence per line.
func QuestionPrompt(story []string, question string) string {
	return fmt.Sprintf(questionPrompt, strings.Join(story, "\n"), question)
}
