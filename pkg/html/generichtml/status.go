package generichtml

import (
	"html/template"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var messageTemplate = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.StatusCode}} {{.StatusMessage}}</title>
</head>
<body>
  <h1>{{.StatusCode}} {{.StatusMessage}}</h1>
  <hr>
  <p>{{.UserMessage}}</p>
  <p><a href="{{.EntryPage}}">Back to messages</a></p>
</body>
</html>
`))

// PrintStatusMessage writes an error page that links back to the archive entry page.
func PrintStatusMessage(w http.ResponseWriter, code int, message, entryPage string) {
	w.Header().Set("Content-Type", "text/html;charset=UTF-8")
	w.WriteHeader(code)

	err := messageTemplate.Execute(w, map[string]interface{}{
		"StatusCode":    code,
		"StatusMessage": http.StatusText(code),
		"UserMessage":   message,
		"EntryPage":     entryPage,
	})
	if err != nil {
		log.WithError(err).Error("could not write status page")
	}
}
