package gemini

import "fmt"

func analyzePrompt(transcript, videoTitle string) string {
	return fmt.Sprintf(`Analyze this video transcript and identify the most engaging moments for creating short-form clips (15-60 seconds).

Video Title: %s

Transcript:
%s

Please provide:
1. Top 3-5 key moments that would make great short clips (with approximate timestamp references if mentioned)
2. Why each moment is engaging (hook, emotional impact, educational value, etc.)
3. Suggested titles for each clip (attention-grabbing, curiosity-inducing)
4. Suggested text hooks/captions for each clip (first 3 seconds overlay text)

Format your response as structured data that can be parsed.`, videoTitle, transcript)
}

func titlePrompt(clipText string) string {
	return fmt.Sprintf(`Generate 3 attention-grabbing titles for this video clip content:

%s

Make them:
- Curiosity-inducing
- Emotional or shocking
- Under 60 characters
- Suitable for TikTok/YouTube Shorts/Instagram Reels

Provide 3 options, one per line.`, clipText)
}

func hookPrompt(clipText string) string {
	return fmt.Sprintf(`Generate a short, attention-grabbing text hook (3-7 words) for the first 3 seconds of this clip:

%s

Make it:
- Ultra-short and punchy
- Creates curiosity
- Makes viewer want to keep watching

Provide only the hook text, nothing else.`, clipText)
}
