package bot

const welcomeText = `👋 *Welcome\!*

Send me a public Telegram channel name, a YouTube @handle link or a Threads link and I will give you its RSS feed\.

Type /help for more options\.`

const helpText = `📌 *Available commands*

/start – Start
/help – Help
/list – Saved feeds \(also /canais\)
/export – Export feeds as OPML \(also /exportar\)
/youtube <id or url\> – RSS of a YouTube channel
/thread <username\> – RSS of a Threads profile
/newsletter <url\> – RSS of a Substack newsletter

📨 Or just send the name of a Telegram channel\.`

const (
	unknownCommandText  = "❔ Unknown command\\. Type /help for the list\\."
	failedText          = "❌ Failed\\."
	invalidNameText     = "❌ Invalid channel name\\. Send only letters and digits\\."
	emptyListText       = "✖️ No feeds are saved yet\\."
	emptyExportText     = "✖️ Nothing to export yet\\."
	exportingText       = "🗂️ Exporting %d feeds as OPML\\.\\.\\."
	youTubeUsageText    = "⚠️ Use: /youtube <channel\\_id or url\\>"
	threadUsageText     = "⚠️ Use: /thread <username\\>"
	newsletterUsageText = "⚠️ Use: /newsletter <url\\>"
	menuText            = "❔ *Choose an option:*"
)
