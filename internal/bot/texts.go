package bot

const (
	welcomeText = `👋 Hi! I am a chat bot powered by Gemini Flash.

I can:
✅ Answer text questions
🎤 Handle voice messages
🖼️ Analyse pictures
🎨 Generate images (draw..., create image...)
📝 Remember the context (last 5 messages)

Commands:
/clear - clear the history
/ok - get the report (max 5 times a day)
/help - help`

	helpText = `📚 HELP:

🔹 Text questions - just write!
🔹 Voice - send a voice message
🔹 Pictures - send a photo with a question
🔹 Generation - "draw...", "create image..."

💬 I answer briefly (up to 500 characters)
🌍 Languages: Russian, Azerbaijani, English

/clear - new conversation
/ok - report for the day`

	clearedText       = "🧹 History cleared. Let's start over!"
	quotaExceededText = "❌ You have used up today's report limit (max %d)"
	reportPrefix      = "📊 Here is the report:\n\n"
	reportMissingText = "📭 The report has not been created yet. Come back later."
	reportErrorText   = "❌ Could not read the report"

	imageCaption     = "🎨 Here is what I made for you!"
	imageFailedText  = "❌ Could not generate the picture. Try again later."
	defaultCaption   = "Here is a picture"
	photoFailedText  = "❌ Could not process the picture"
	voiceHeardPrefix = "🎤 I heard:\n\n"
	voiceFailedText  = "❌ Could not process the voice message. Try again."

	photoLogPrefix = "[PHOTO] "
	voiceLogPrefix = "[VOICE] "
)
