package service

import (
	"fmt"
	"interview_prep_backend/internal/scoring"
	"strings"
)

// 出题导师的系统提示词
const problemGeneratorPrompt = `You are an interview preparation tutor that generates high-quality programming interview problems and helps software engineers prepare for technical interviews.

For any question that is not related to interview preparation, respond with: "Sorry, my capabilities are only for helping in interview preparation."

PROBLEM GENERATION WORKFLOW:

1. For new users, gather the following information if it has not been provided:
   - Target job title (Software Engineer, Senior Software Engineer, etc.). THIS IS REQUIRED
   - Target companies
   - Preferred programming languages
   - Preparation timeframe
   - Current skill level
   - Specific topic or concept, if any

If the user has not provided a target job title, ask for it first:
"To provide you with the most relevant interview questions, ` + scoring.OnboardingQuestion + `? (e.g., Software Engineer, Senior Software Engineer, Lead Software Engineer, etc.)"

2. Once you know the job title, confirm it with "Here is a problem for a <job title> role." and generate the problem with this structure:
   Two lines explaining why this problem was chosen and how it helps the user improve.

   Problem Title: A clear, concise title

   Description: Clear explanation of the problem

   Example:
   Input: [format and example]
   Output: [expected result]
   Explanation: Why this is the output

   Constraints:
   - Time complexity requirement
   - Space complexity requirement
   - Input size limits

   Test Cases:
   Exactly 3 test cases with increasing complexity, each with Input and Expected Output.

Focus only on the problem. Do not provide solutions unless explicitly asked.`

// 代码评估提示词；分数格式必须能被 scoring.ParseScores 解析
func evaluationPrompt() string {
	var b strings.Builder
	b.WriteString("You are a code evaluator for technical interviews. Evaluate the candidate's solution to the given problem.\n\n")
	b.WriteString("Score every criterion out of 10 and write each score exactly as \"<Criterion> (<score>/10)\", using these criterion names verbatim:\n")
	for i, m := range scoring.Metrics() {
		fmt.Fprintf(&b, "%d. %s\n", i+1, m.DisplayName())
	}
	b.WriteString(`
Then provide:
- Total score out of 80
- Specific feedback and improvement suggestions
- Confidence level (0-100%) for the target job title based on this solution
- A section titled "Areas of Strength" with bullet points
- A section titled "Areas Needing Improvement" with bullet points

Format the response in markdown.`)
	return b.String()
}

func evaluationUserPrompt(problem, language, code, jobTitle string) string {
	return fmt.Sprintf(`Problem:
%s

Candidate's Code (%s):
%s

Target Job Title: %s

Please evaluate the solution based on the given criteria.`, problem, language, code, jobTitle)
}

// 题库生成提示词，要求返回 JSON
func questionPrompt(topic, description, difficulty string) string {
	return fmt.Sprintf(`Generate a coding problem related to %s (%s) with %s difficulty level.
Respond with JSON only, in the following format:
{
  "title": "Problem title",
  "description": "Detailed problem description",
  "examples": [
    {"input": "Example input", "output": "Example output", "explanation": "Explanation of the example"}
  ],
  "constraints": ["List of constraints"],
  "testCases": [
    {"input": "Test case input", "output": "Expected output"}
  ]
}`, topic, description, difficulty)
}

func hintPrompt(problem string) string {
	return fmt.Sprintf(`Generate a helpful hint for the following coding problem without giving away the complete solution:

Problem: %s

Provide a hint that guides the user towards the solution while encouraging them to think through the problem.`, problem)
}

// tutorGuidance 把目标职位与薄弱项拼进系统提示词
func tutorGuidance(jobTitle string, weakMetrics, areas []string) string {
	if jobTitle == "" && len(weakMetrics) == 0 && len(areas) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\nCANDIDATE CONTEXT:\n")
	if jobTitle != "" {
		fmt.Fprintf(&b, "- Target job title: %s\n", jobTitle)
	}
	if len(weakMetrics) > 0 {
		fmt.Fprintf(&b, "- Metrics below target: %s\n", strings.Join(weakMetrics, ", "))
	}
	if len(areas) > 0 {
		fmt.Fprintf(&b, "- Areas needing improvement from recent evaluations: %s\n", strings.Join(areas, "; "))
	}
	b.WriteString("Generate problems that specifically target these areas.")
	return b.String()
}
