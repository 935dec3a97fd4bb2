package app

import (
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"redrose-ai/internal/model"
)

const (
	exportedBy      = "Red Rose AI - 100% FREE"
	exportTimestamp = "Jan 2, 2006, 3:04:05 PM"
)

type chatExportView struct {
	Conversation *model.Conversation
	Messages     []model.Message
	ExportedAt   time.Time
}

var exportFuncs = map[string]any{
	"stamp": func(t time.Time) string { return t.Format(exportTimestamp) },
	"speaker": func(role string) string {
		if role == model.RoleUser {
			return "You"
		}
		return "Red Rose AI"
	},
}

var chatTextTemplate = texttemplate.Must(texttemplate.New("chat.txt").Funcs(exportFuncs).Parse(
	`RED ROSE AI CHAT EXPORT - 100% FREE
==========================================

Conversation: {{.Conversation.Title}}
Created: {{stamp .Conversation.CreatedAt}}
Exported: {{stamp .ExportedAt}}

Messages:
---------
{{range .Messages}}
[{{stamp .CreatedAt}}] {{speaker .Role}}:
{{.Content}}
{{end}}
==========================================
Exported by Red Rose AI - 100% FREE
More powerful than paid alternatives - completely free forever!`))

var chatHTMLTemplate = htmltemplate.Must(htmltemplate.New("chat.html").Funcs(exportFuncs).Funcs(htmltemplate.FuncMap{
	"lines": func(s string) htmltemplate.HTML {
		escaped := htmltemplate.HTMLEscapeString(s)
		return htmltemplate.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
	},
	"roleClass": func(role string) string {
		if role == model.RoleUser {
			return model.RoleUser
		}
		return model.RoleAssistant
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Red Rose AI Chat Export - 100% FREE</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; background: #0f0f23; color: #e2e8f0; }
        .header { text-align: center; margin-bottom: 30px; padding: 20px; background: linear-gradient(135deg, #ec4899, #8b5cf6); border-radius: 10px; }
        .message { margin: 15px 0; padding: 15px; border-radius: 10px; }
        .user { background: #1e293b; border-left: 4px solid #ec4899; }
        .assistant { background: #0f172a; border-left: 4px solid #8b5cf6; }
        .timestamp { font-size: 0.8em; opacity: 0.7; margin-top: 5px; }
        .footer { text-align: center; margin-top: 30px; padding: 15px; background: #1e293b; border-radius: 10px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>🌹 Red Rose AI Chat Export</h1>
        <p><strong>Conversation:</strong> {{.Conversation.Title}}</p>
        <p><strong>Created:</strong> {{stamp .Conversation.CreatedAt}}</p>
        <p><strong>Exported:</strong> {{stamp .ExportedAt}}</p>
    </div>

    <div class="messages">{{range .Messages}}
        <div class="message {{roleClass .Role}}">
            <strong>{{speaker .Role}}:</strong>
            <div>{{lines .Content}}</div>
            <div class="timestamp">{{stamp .CreatedAt}}</div>
        </div>{{end}}
    </div>

    <div class="footer">
        <p><strong>Exported by Red Rose AI - 100% FREE</strong></p>
        <p>More powerful than paid alternatives - completely free forever!</p>
    </div>
</body>
</html>`))

type contentExportView struct {
	Content    *model.GeneratedContent
	ExportedAt time.Time
}

var contentTextTemplate = texttemplate.Must(texttemplate.New("content.txt").Funcs(exportFuncs).Parse(
	`RED ROSE AI GENERATED CONTENT - 100% FREE
==========================================

Type: {{.Content.ContentType}}
Created: {{stamp .Content.CreatedAt}}
Exported: {{stamp .ExportedAt}}

Prompt:
{{.Content.Prompt}}

Result:
{{.Content.Content}}

==========================================
Exported by Red Rose AI - 100% FREE`))
