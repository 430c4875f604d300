package llm

import (
	"fmt"
	"strings"
)

// buildSystemPrompt creates the instructions shared by every edit call.
func buildSystemPrompt() (prompt string) {
	prompt = `You are an expert resume writer editing one section of a LaTeX resume at a time.

RULES - FOLLOW EXACTLY:
- Return ONLY the LaTeX for the section you were given. No commentary, no explanations, no markdown code fences.
- The output MUST start with the same \section or \section* command and the same heading as the input.
- Do NOT add new \section commands. Do NOT add \begin{document}, \end{document}, \documentclass or \usepackage.
- Keep every custom command, environment and macro the input uses. Every \begin{...} must have its matching \end{...}.
- Keep braces balanced and escape special characters (%, &, $, #, _) the way the input does.
- Do NOT invent employers, titles, dates, degrees, metrics or technologies that are not in the input.
- You MAY reorder bullets, tighten wording, and emphasize experience that matches the job description.
- Do NOT use emojis.
- If the section cannot be improved, return it unchanged.`

	return prompt
}

// buildEditPrompt creates the user message for one section. The job description
// is included only on the first turn of a conversation.
func buildEditPrompt(jobDescription, section string, first bool) (prompt string) {
	var builder strings.Builder

	if first {
		if strings.TrimSpace(jobDescription) != "" {
			builder.WriteString(fmt.Sprintf("JOB DESCRIPTION:\n%s\n\n", strings.TrimSpace(jobDescription)))
			builder.WriteString("Tailor the resume section below to this job description.\n\n")
		} else {
			builder.WriteString("No job description was provided. Improve the clarity and impact of the resume section below.\n\n")
		}
	} else {
		builder.WriteString("Next section of the same resume. Stay consistent with the sections you already edited.\n\n")
	}

	builder.WriteString("SECTION:\n")
	builder.WriteString(section)

	prompt = builder.String()
	return prompt
}

// buildConversation lays out the turns for a request: prior exchanges as
// user/assistant pairs followed by the current section.
func buildConversation(req EditRequest) (turns []turn) {
	turns = make([]turn, 0, 2*len(req.History)+1)

	for i, exchange := range req.History {
		turns = append(turns,
			turn{Role: roleUser, Text: buildEditPrompt(req.JobDescription, exchange.Section, i == 0)},
			turn{Role: roleAssistant, Text: exchange.Edited},
		)
	}

	turns = append(turns, turn{Role: roleUser, Text: buildEditPrompt(req.JobDescription, req.Section, len(req.History) == 0)})

	return turns
}
