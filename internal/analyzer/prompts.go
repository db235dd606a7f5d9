// Package analyzer implements the privacy-scoring pipeline stages:
// site metadata resolution, clause extraction, category scoring, and
// overall score aggregation.
package analyzer

import (
	"fmt"
	"strings"

	"github.com/KigoJomo/privacy-peek/internal/model"
	"github.com/KigoJomo/privacy-peek/internal/rubric"
)

// buildMetadataPrompt creates the prompt for site identity resolution.
func buildMetadataPrompt(siteInput string) string {
	return fmt.Sprintf(`You are asked to get the website metadata for %q.

The normalized_base_url is the full URL including protocol (http or https) and www. subdomain (e.g., "https://www.example.com") with no trailing slashes.

site_name is the name of the website.

tags should include relevant keywords, common urls and topics associated with the website. Include at least 15 tags. For example, meta.com may have tags like "Meta", "Facebook", "instagram.com", "facebook.com", "Social Media", "Tech Company", etc.

policy_documents_urls: An array of URLs that contain the site's privacy policy, terms of service, or other relevant legal documents. Include at least 2 URLs.

Return ONLY a JSON object in this exact structure:
{
  "normalized_base_url": "https://www.example.com",
  "site_name": "Example Site",
  "tags": ["Example", "example.com"],
  "policy_documents_urls": ["https://www.example.com/privacy", "https://www.example.com/terms"]
}

Important:
- Use official sources only.
- Prioritize the most current versions.
- Verify URLs actually exist.
- The normalized_base_url should match the base url for the policy documents.
- Always include www. in the normalized_base_url.
- Never hallucinate - return empty strings or empty arrays if uncertain.`, siteInput)
}

// buildExtractionPrompt creates the prompt for one (document, category)
// extraction call.
func buildExtractionPrompt(documentURL, categoryName string, minClauses int) string {
	return fmt.Sprintf(`You are a privacy policy analyst. From the following url: %s, extract every clause that pertains to %s.

Return ONLY a JSON array of objects in this format:
[
  {
    "clause": "The specific clause text here",
    "relevance": 0.9
  }
]

Important:
- Clause should be the exact complete sentence or paragraph that clearly states the policy.
- Relevance is a number between 0.0 (irrelevant) and 1.0 (perfectly on-topic).
- Aim for at least %d clauses, but never pad with fabricated or placeholder text - return fewer, or an empty array, if the document does not support more.
- Properly escape all quotes and special characters in the clause text.
- Replace any newlines in clause text with \n.`, documentURL, categoryName, minClauses)
}

// buildScoringPrompt creates the prompt for one category scoring call.
func buildScoringPrompt(category rubric.Category, clauses []model.Clause) string {
	var clauseList strings.Builder
	for _, c := range clauses {
		fmt.Fprintf(&clauseList, "- %s (Relevance: %.2f)\n", c.Text, c.Relevance)
	}

	var rubricList strings.Builder
	for _, anchor := range category.Rubric {
		fmt.Fprintf(&rubricList, "Score: %g - %s\n", anchor.Score, anchor.Description)
	}

	return fmt.Sprintf(`These are clauses extracted from a website's Privacy Policy and Terms of Service specifically regarding %s:

%s
You are given the following rubric for scoring the website's performance in %s based on the provided clauses:

%s
Carefully go through all provided clauses and find the most appropriate score for the website in %s.

Return only a JSON object in this format:
{
  "score": 7,
  "reasoning": "brief explanation of the score"
}

Important:
- The score must be between 0 and 10.
- The reasoning must reference the provided clauses, at most 2 sentences.
- Use simple language, understandable by a non-technical user.
- Do not include any additional text or explanations outside the JSON object.`,
		category.Name, clauseList.String(), category.Name, rubricList.String(), category.Name)
}

// buildExplanationPrompt creates the prompt for the overall score
// explanation. The number is already computed; the model only words it.
func buildExplanationPrompt(catalog *rubric.Catalog, scores []model.CategoryScore, overallScore float64) string {
	var scoreList strings.Builder
	for _, cs := range scores {
		fmt.Fprintf(&scoreList, "%s: %g.\nReasoning: %s\n\n", cs.CategoryName, cs.Score, cs.Reasoning)
	}

	var weightList strings.Builder
	for _, cat := range catalog.Categories() {
		fmt.Fprintf(&weightList, "%s - %g\n", cat.Name, cat.Weight)
	}

	return fmt.Sprintf(`A website's privacy practices are scored out of 10 in categories as shown:

%s
Overall score is calculated as a weighted average based on the following weights:
%s
The overall score is %.2f.
Return only a brief reasoning for this overall score, focusing on the most impactful categories and their implications for user privacy.
At most 2 sentences. Use simple language, understandable by a non-technical user.`,
		scoreList.String(), weightList.String(), overallScore)
}
