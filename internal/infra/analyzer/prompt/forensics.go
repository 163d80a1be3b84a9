package prompt

import "fmt"

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are a media forensics analyst assessing whether a file is authentic or synthetically generated. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- status must be one of: safe, suspicious, fake.
- authenticityScore and confidenceLevel are integers between 0 and 100.
- detectedSignals is an array of short observation strings.
- Only the file name, media type and content fingerprint are provided; reason conservatively from those.

Schema (example with empty values):
{
  "fileName": "<string>",
  "fileType": "<image|audio|video|text|url>",
  "fileHash": "<string>",
  "authenticityScore": 0,
  "status": "<safe|suspicious|fake>",
  "aiExplanation": "<string>",
  "detectedSignals": ["<string>"],
  "confidenceLevel": 0
}`
}

// GetUserPrompt builds a compact user message around the file metadata.
func GetUserPrompt(fileName, fileType, fileHash string) string {
	return fmt.Sprintf("Assess the authenticity of this file and respond with the JSON per schema. Name: %s Type: %s Fingerprint: %s",
		fileName, fileType, fileHash)
}
