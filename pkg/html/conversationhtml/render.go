package conversationhtml

import (
	"crypto/md5" // nolint:gosec
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	messagesv1 "github.com/openshift/smsxml2html/pkg/apis/messages/v1"
	"github.com/openshift/smsxml2html/pkg/html/generichtml"
	"github.com/openshift/smsxml2html/pkg/identity"
)

const (
	// DefaultChunkSize is the rendered size above which a conversation is split into chunks.
	DefaultChunkSize = 50 * 1024 * 1024

	monthLabelFormat  = "January 2006"
	monthAnchorFormat = "0601"
	rowDateFormat     = "Jan 02, 2006"
	rowTimeFormat     = "03:04:05 PM"

	idLength = 12
)

// ConversationID is the short file-system safe identifier of a conversation key.
func ConversationID(key string) string {
	sum := md5.Sum([]byte(key)) // nolint:gosec
	return hex.EncodeToString(sum[:])[:idLength]
}

// Renderer turns conversations into HTML. Contacts is the global contact map, consulted after a
// conversation's own contact map when naming participants.
type Renderer struct {
	Owner     string
	Location  *time.Location
	ChunkSize int
	Contacts  identity.ContactMap
}

func NewRenderer(ownerNumber string, contacts identity.ContactMap) *Renderer {
	return &Renderer{
		Owner:     identity.NormalizeNumber(ownerNumber),
		Location:  time.Local,
		ChunkSize: DefaultChunkSize,
		Contacts:  contacts,
	}
}

// MonthFragment is the table of one calendar month of a conversation.
type MonthFragment struct {
	Label  string
	Anchor string
	HTML   string
}

// RenderedConversation holds the pieces of one conversation. Chunks is empty unless the conversation
// is larger than the chunk size.
type RenderedConversation struct {
	ID           string
	Conversation *messagesv1.Conversation
	Header       string
	Months       []MonthFragment
	Chunks       []Chunk
}

func (rc *RenderedConversation) IsChunked() bool {
	return len(rc.Chunks) > 0
}

// Size is the length of the full rendering.
func (rc *RenderedConversation) Size() int {
	size := len(rc.Header)
	for _, month := range rc.Months {
		size += len(month.HTML)
	}
	return size
}

// Full is the header followed by every month, newest first.
func (rc *RenderedConversation) Full() string {
	sb := &strings.Builder{}
	sb.Grow(rc.Size())
	sb.WriteString(rc.Header)
	for _, month := range rc.Months {
		sb.WriteString(month.HTML)
	}
	return sb.String()
}

func (r *Renderer) location() *time.Location {
	if r.Location == nil {
		return time.Local
	}
	return r.Location
}

func (r *Renderer) chunkSize() int {
	if r.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return r.ChunkSize
}

func (r *Renderer) localTime(ts int64) time.Time {
	return time.UnixMilli(ts).In(r.location())
}

// RenderConversation renders the months of conv newest first and splits them into chunks when the
// whole rendering exceeds the chunk size.
func (r *Renderer) RenderConversation(conv *messagesv1.Conversation) *RenderedConversation {
	rc := &RenderedConversation{
		ID:           ConversationID(conv.Key),
		Conversation: conv,
	}
	rc.Months = r.renderMonths(rc.ID, conv)
	rc.Header = r.renderHeader(conv, rc.Months)

	if rc.Size() > r.chunkSize() {
		rc.Chunks = splitChunks(rc.Months, r.chunkSize())
	}
	return rc
}

func (r *Renderer) renderMonths(id string, conv *messagesv1.Conversation) []MonthFragment {
	var months []MonthFragment
	var current *generichtml.HTMLTable
	var label, anchor string

	flush := func() {
		if current == nil {
			return
		}
		months = append(months, MonthFragment{
			Label:  label,
			Anchor: anchor,
			HTML: generichtml.HTMLItems{
				generichtml.NewHTMLAnchor(anchor),
				generichtml.HTMLElement{Element: "h2", Text: label},
				current,
			}.ToHTML(),
		})
	}

	for _, ts := range conv.TimestampsNewestFirst() {
		msg := conv.Messages[ts]
		when := r.localTime(msg.Timestamp)
		if monthLabel := when.Format(monthLabelFormat); current == nil || monthLabel != label {
			flush()
			label = monthLabel
			anchor = fmt.Sprintf("month-%s_%s", when.Format(monthAnchorFormat), id)
			table := newMonthTable()
			current = &table
		}
		current.AddRow(r.renderRow(msg, when))
	}
	flush()

	return months
}

func newMonthTable() generichtml.HTMLTable {
	table := generichtml.NewHTMLTable(map[string]string{"class": "messages_table"})
	headerRow := generichtml.NewHTMLTableRow(nil)
	headerRow.AddItems([]generichtml.HTMLItem{
		generichtml.HTMLTableHeaderRowItem{Text: "Type", Params: map[string]string{"style": "width: 80px;"}},
		generichtml.HTMLTableHeaderRowItem{Text: "Date", Params: map[string]string{"style": "width: 150px;"}},
		generichtml.HTMLTableHeaderRowItem{Text: "Name / Number", Params: map[string]string{"style": "width: 200px;"}},
		generichtml.HTMLTableHeaderRowItem{Text: "Content"},
	})
	table.AddHeaderRow(headerRow)
	return table
}

func (r *Renderer) renderRow(msg *messagesv1.Message, when time.Time) generichtml.HTMLTableRow {
	typeLabel, rowClass, sender := r.senderInfo(msg)

	content := []generichtml.HTMLItem{generichtml.HTMLText(generichtml.EscapeText(msg.Body))}
	for _, image := range msg.Images {
		content = append(content,
			generichtml.HTMLText("<br>"),
			generichtml.HTMLElement{
				Element: "img",
				Void:    true,
				Params: map[string]string{
					"class":   "mms_img",
					"src":     generichtml.EscapeAttribute(image.DataURI),
					"alt":     "MMS Image",
					"onclick": "openImageModal(this.src)",
				},
			})
	}

	return generichtml.NewHTMLTableRowWithItems(map[string]string{"class": rowClass}, []generichtml.HTMLItem{
		generichtml.HTMLTableRowItem{Text: typeLabel, Params: map[string]string{"class": "msg_type"}},
		generichtml.HTMLTableRowItem{
			Text:   when.Format(rowDateFormat) + "<br>" + when.Format(rowTimeFormat),
			Params: map[string]string{"class": "msg_date"},
		},
		generichtml.HTMLTableRowItem{Text: sender, Params: map[string]string{"class": "msg_contact"}},
		generichtml.HTMLTableRowItem{HTMLItems: content},
	})
}

// senderInfo returns the type label, row class and escaped sender cell of msg.
func (r *Renderer) senderInfo(msg *messagesv1.Message) (string, string, string) {
	name := generichtml.EscapeText(msg.SenderName)

	switch {
	case msg.IsReceived():
		switch {
		case msg.SenderName != "" && msg.SenderAddress != "":
			return "Received", "msg_received", name + "<br>" + identity.FormatNumber(msg.SenderAddress)
		case msg.SenderAddress != "":
			return "Received", "msg_received", identity.FormatNumber(msg.SenderAddress)
		case msg.SenderName != "":
			return "Received", "msg_received", name
		default:
			return "Received", "msg_received", "Unknown"
		}
	case msg.IsSent():
		return "Sent", "msg_sent", messagesv1.OwnerName + "<br>" + identity.FormatNumber(r.Owner)
	default:
		sender := name + "<br>"
		if msg.SenderAddress != "" {
			sender += identity.FormatNumber(msg.SenderAddress)
		}
		return "Type " + generichtml.EscapeText(msg.Type), "msg_received", sender
	}
}

// renderHeader renders the participant summary of group conversations and, when there is more than
// one month, the month jump links.
func (r *Renderer) renderHeader(conv *messagesv1.Conversation, months []MonthFragment) string {
	var header generichtml.HTMLItems

	if conv.IsGroup() {
		participants := make([]string, 0, len(conv.Participants))
		for _, number := range conv.Participants {
			name := identity.NameFor(number, conv.ContactMap, r.Contacts)
			participants = append(participants,
				fmt.Sprintf("%s (%s)", generichtml.EscapeText(name), identity.FormatNumberSimple(number)))
		}

		header = append(header, generichtml.HTMLElement{
			Element: "div",
			Params:  map[string]string{"class": "conversation-details"},
			HTMLItems: []generichtml.HTMLItem{
				paragraph(generichtml.HTMLElement{Element: "strong", Text: "Group Conversation"}),
				paragraph(
					generichtml.HTMLElement{Element: "strong", Text: "Participants:"},
					generichtml.HTMLText(" "+strings.Join(participants, ", ")),
				),
				paragraph(
					generichtml.HTMLElement{Element: "strong", Text: "Total Messages:"},
					generichtml.HTMLText(fmt.Sprintf(" %d", len(conv.Messages))),
				),
			},
		})
	}

	if len(months) > 1 {
		links := make([]string, 0, len(months))
		for _, month := range months {
			links = append(links, generichtml.NewHTMLLinkWithParams(month.Label, "javascript:void(0)", map[string]string{
				"onclick": fmt.Sprintf("jumpToMonth('%s')", month.Anchor),
			}).ToHTML())
		}

		header = append(header, generichtml.HTMLElement{
			Element: "div",
			Params:  map[string]string{"class": "month-jump"},
			HTMLItems: []generichtml.HTMLItem{
				generichtml.HTMLElement{Element: "strong", Text: "Jump to:"},
				generichtml.HTMLText(" " + strings.Join(links, " | ")),
			},
		})
	}

	return header.ToHTML()
}

func paragraph(items ...generichtml.HTMLItem) generichtml.HTMLElement {
	return generichtml.HTMLElement{Element: "p", HTMLItems: items}
}
