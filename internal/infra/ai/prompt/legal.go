package prompt

// GetSystemPrompt frames the model as a legal reviewer producing key-point
// output, one finding per line.
func GetSystemPrompt() string {
	return `You are a legal document reviewer. Summarize the provided legal text as key points, one finding per line, each line starting with "* ". Use plain language and flag severity in the wording (critical issue, warning, note). Do not add headings, numbering or commentary outside the findings themselves.`
}

// GetAnalysisInstructions returns the per-request analysis context handed
// to the summarizer alongside the page text.
func GetAnalysisInstructions() string {
	return `Analyze this legal text for potential issues. For each issue found:
1. Identify if it's a critical issue, warning, or informational note
2. Explain the potential impact or risk
3. Suggest what to watch out for
4. If possible, recommend improvements

Focus on:
- Legal loopholes or ambiguities (Critical)
- Concerning clauses or terms (Warning)
- Vague or unclear language (Warning)
- Potentially disadvantageous terms (Warning)
- Missing or incomplete information (Info)
- Compliance issues (Critical)
- Data privacy concerns (Critical)
- Liability issues (Critical)
- Payment and fee structures (Warning)
- Termination clauses (Warning)
- Notice requirements (Info)

Format each point as a clear, separate finding.`
}
