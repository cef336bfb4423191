package conversationhtml

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	messagesv1 "github.com/openshift/smsxml2html/pkg/apis/messages/v1"
	"github.com/openshift/smsxml2html/pkg/html/generichtml"
	"github.com/openshift/smsxml2html/pkg/identity"
)

//go:embed static/style.css static/app.js static/index.html
var staticFS embed.FS

const (
	listDateFormat = "Jan 02, 2006"
	maxMiniAvatars = 4
)

var indexTemplate = template.Must(template.New("index.html").ParseFS(staticFS, "static/index.html"))

// IndexEntry is one row of the conversation list.
type IndexEntry struct {
	Metadata           messagesv1.ConversationMetadata
	Avatar             template.HTML
	Preview            string
	Date               string
	SearchName         string
	SearchParticipants string
}

// IndexPage is everything the entry page shows. DataDir is the directory, relative to the page, that
// holds the data files.
type IndexPage struct {
	Title   string
	DataDir string
	Entries []IndexEntry
}

// IndexEntry builds the list row of a rendered conversation.
func (r *Renderer) IndexEntry(rc *RenderedConversation) IndexEntry {
	conv := rc.Conversation

	entry := IndexEntry{
		Metadata:   rc.Metadata(),
		SearchName: strings.ToLower(conv.DisplayName),
	}

	if latest := conv.LatestTimestamp(); latest != 0 {
		entry.Date = r.localTime(latest).Format(listDateFormat)
	}

	switch len(conv.Participants) {
	case 0:
		entry.Preview = "Unknown"
	case 1:
		entry.Preview = identity.FormatNumberSimple(conv.Participants[0])
	default:
		entry.Preview = fmt.Sprintf("Group · %d people", len(conv.Participants))
	}

	var search []string
	for _, number := range conv.Participants {
		search = append(search, identity.FormatNumberSimple(number), number)
	}
	entry.SearchParticipants = strings.Join(search, " ")

	if conv.IsGroup() {
		entry.Avatar = template.HTML(r.groupAvatar(conv)) // nolint:gosec
	} else {
		entry.Avatar = template.HTML(generichtml.HTMLElement{ // nolint:gosec
			Element: "div",
			Params:  map[string]string{"class": "conversation-avatar"},
			Text:    generichtml.EscapeText(contactInitials(conv.DisplayName)),
		}.ToHTML())
	}

	return entry
}

func (r *Renderer) groupAvatar(conv *messagesv1.Conversation) string {
	count := len(conv.Participants)
	if count > maxMiniAvatars {
		count = maxMiniAvatars
	}

	var nameParts []string
	if strings.Contains(conv.DisplayName, ",") {
		for _, part := range strings.Split(conv.DisplayName, ",") {
			nameParts = append(nameParts, strings.TrimSpace(part))
		}
	}

	avatars := make([]generichtml.HTMLItem, 0, count)
	for i, number := range conv.Participants[:count] {
		name, ok := conv.ContactMap[number]
		if !ok || name == "" {
			if i < len(nameParts) && nameParts[i] != "" {
				name = nameParts[i]
			} else {
				name = identity.NameFor(number, r.Contacts)
			}
		}
		avatars = append(avatars, generichtml.HTMLElement{
			Element: "div",
			Params:  map[string]string{"class": "mini-avatar"},
			Text:    generichtml.EscapeText(initial(name)),
		})
	}

	return generichtml.HTMLElement{
		Element:   "div",
		Params:    map[string]string{"class": fmt.Sprintf("conversation-avatar-group group-%d", count)},
		HTMLItems: avatars,
	}.ToHTML()
}

// cleanName keeps letters, digits and spaces.
func cleanName(name string) []rune {
	var cleaned []rune
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			cleaned = append(cleaned, r)
		}
	}
	return cleaned
}

// initial is the upper-cased first letter of name, or "#" for names that are really numbers.
func initial(name string) string {
	cleaned := cleanName(name)
	if len(cleaned) == 0 || !unicode.IsLetter(cleaned[0]) {
		return "#"
	}
	return strings.ToUpper(string(cleaned[0]))
}

// contactInitials is the first letter of the first two words of name, or its first two letters for a
// single word. Phone numbers get "#".
func contactInitials(name string) string {
	if initial(name) == "#" || identity.LooksLikeNumber(name) {
		return "#"
	}

	words := strings.Fields(string(cleanName(name)))
	if len(words) >= 2 {
		return strings.ToUpper(string([]rune(words[0])[0]) + string([]rune(words[1])[0]))
	}
	runes := []rune(words[0])
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}

// RenderIndex writes the entry page.
func RenderIndex(w io.Writer, page IndexPage) error {
	stylesheet, err := staticFS.ReadFile("static/style.css")
	if err != nil {
		return errors.Wrap(err, "could not read stylesheet")
	}
	script, err := staticFS.ReadFile("static/app.js")
	if err != nil {
		return errors.Wrap(err, "could not read client script")
	}

	metadata := make([]messagesv1.ConversationMetadata, 0, len(page.Entries))
	for _, entry := range page.Entries {
		metadata = append(metadata, entry.Metadata)
	}

	err = indexTemplate.Execute(w, map[string]interface{}{
		"Title":      page.Title,
		"DataDir":    page.DataDir + "/",
		"Entries":    page.Entries,
		"Metadata":   metadata,
		"Stylesheet": template.CSS(stylesheet), // nolint:gosec
		"Script":     template.JS(script),      // nolint:gosec
	})
	return errors.Wrap(err, "could not render entry page")
}
