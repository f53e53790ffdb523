package extract

// BuildExtractionPrompt returns the instruction given to vision-capable
// providers. The provider must return the bill text exactly as written; any
// paraphrasing upstream would break evidence matching downstream.
func BuildExtractionPrompt() string {
	return `You are a medical bill transcription engine. Transcribe ALL text from the attached document exactly as written, preserving line breaks, spacing, dollar amounts, and billing codes. Do not summarize, correct, or reorder anything.

Then estimate your confidence (0-100) that the transcription faithfully captures the document, based on scan quality and legibility.

Respond with ONLY a JSON object in this exact shape:
{"text": "<the full transcribed text>", "ocr_confidence": <integer 0-100>}`
}
