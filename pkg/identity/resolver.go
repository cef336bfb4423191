package identity

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/sets"

	messagesv1 "github.com/openshift/smsxml2html/pkg/apis/messages/v1"
	"github.com/openshift/smsxml2html/pkg/backup"
)

// unknownSender names a media message whose record lists no usable address at all.
const unknownSender = "Unknown"

// Resolved is a record after identity resolution.
type Resolved struct {
	Message *messagesv1.Message
	// Remotes holds every distinct remote participant, owner excluded, in address field order.
	Remotes []string
	// Names are the number to name pairs this record itself supplied.
	Names ContactMap
	// ContactName is the raw contact name attribute, used verbatim to name new group conversations.
	ContactName string
	// DroppedMedia lists the content types of image parts that were not embedded.
	DroppedMedia []string
}

// Resolver attributes senders and names. Contacts is consulted but never written; callers merge
// Resolved.Names into it once a record has been accepted.
type Resolver struct {
	Owner    string
	Contacts ContactMap
}

func NewResolver(ownerNumber string, contacts ContactMap) *Resolver {
	if contacts == nil {
		contacts = NewContactMap()
	}
	return &Resolver{
		Owner:    NormalizeNumber(ownerNumber),
		Contacts: contacts,
	}
}

func (r *Resolver) isOwner(number string) bool {
	return r.Owner != "" && number == r.Owner
}

// ResolveSMS attributes a text record. Received messages are sent by the record address; every other
// type code was written on the device and belongs to the owner.
func (r *Resolver) ResolveSMS(sms backup.SMS) Resolved {
	address := NormalizeNumber(sms.Address)
	names := NewContactMap()
	names.Set(address, sms.ContactName)

	msg := &messagesv1.Message{
		Kind:      messagesv1.KindSMS,
		Timestamp: sms.Date,
		Body:      sms.Body,
		Type:      sms.Type,
	}
	if sms.Type == messagesv1.TypeReceivedSMS {
		msg.SenderAddress = address
		msg.SenderName = NameFor(address, names, r.Contacts)
	} else {
		msg.SenderAddress = r.Owner
		msg.SenderName = messagesv1.OwnerName
	}

	return Resolved{
		Message:     msg,
		Remotes:     []string{address},
		Names:       names,
		ContactName: sms.ContactName,
	}
}

// ResolveMMS attributes a media record, assembles its body from text parts and embeds its images.
func (r *Resolver) ResolveMMS(mms backup.MMS) Resolved {
	sent := mms.MsgBox == backup.MsgBoxSent
	msg := &messagesv1.Message{
		Kind:      messagesv1.KindMMS,
		Timestamp: mms.Date,
		Type:      messagesv1.TypeReceivedMMS,
	}
	if sent {
		msg.Type = messagesv1.TypeSentMMS
	}

	var dropped []string
	var body strings.Builder
	for _, part := range mms.Parts {
		switch {
		case isImagePart(part.ContentType) && part.Data != "":
			mimeType, ok := NormalizeImageType(part.ContentType)
			if !ok {
				log.WithFields(log.Fields{"date": mms.Date, "mime": part.ContentType}).
					Warnf("Unknown MIME type '%s' for MMS content; omitting content", part.ContentType)
				dropped = append(dropped, part.ContentType)
				continue
			}
			msg.Images = append(msg.Images, messagesv1.Image{MIMEType: mimeType, DataURI: DataURI(mimeType, part.Data)})
		case isTextPart(part.ContentType):
			body.WriteString(part.Text)
		}
	}
	msg.Body = body.String()

	var remotes []string
	var originator string
	for _, addr := range mms.Addrs {
		number := NormalizeNumber(addr.Address)
		if number == "" || r.isOwner(number) {
			continue
		}
		remotes = append(remotes, number)
		if addr.Type == backup.AddrTypeFrom && mms.MsgBox == backup.MsgBoxReceived {
			originator = number
		}
	}
	fieldOrder := r.addressField(mms.Address)
	if len(remotes) == 0 {
		remotes = fieldOrder
	}

	names := r.nameMap(mms.ContactName, mms.Address, fieldOrder)

	switch {
	case sent:
		msg.SenderAddress = r.Owner
		msg.SenderName = messagesv1.OwnerName
	case originator != "":
		msg.SenderAddress = originator
		msg.SenderName = NameFor(originator, names, r.Contacts)
	case len(remotes) > 0:
		msg.SenderAddress = remotes[0]
		msg.SenderName = NameFor(remotes[0], names, r.Contacts)
	default:
		msg.SenderName = mms.ContactName
		if IsUnknownName(msg.SenderName) {
			msg.SenderName = unknownSender
		}
	}

	return Resolved{
		Message:      msg,
		Remotes:      orderedDistinct(remotes, fieldOrder),
		Names:        names,
		ContactName:  mms.ContactName,
		DroppedMedia: dropped,
	}
}

// addressField splits the '~' separated address attribute into normalized numbers, owner excluded.
func (r *Resolver) addressField(field string) []string {
	if field == "" {
		return nil
	}
	var numbers []string
	for _, raw := range strings.Split(field, "~") {
		number := NormalizeNumber(raw)
		if number == "" || r.isOwner(number) {
			continue
		}
		numbers = append(numbers, number)
	}
	return numbers
}

// nameMap pairs the comma separated contact names with the address field positionally. A single
// address with a single name maps directly. Mismatched lengths pair as many as both lists allow.
func (r *Resolver) nameMap(contactName, field string, fieldOrder []string) ContactMap {
	names := NewContactMap()
	if IsUnknownName(contactName) || field == "" {
		return names
	}

	if strings.Contains(contactName, ",") {
		parts := strings.Split(contactName, ",")
		for i, number := range fieldOrder {
			if i >= len(parts) {
				break
			}
			names.Set(number, strings.TrimSpace(parts[i]))
		}
		return names
	}

	if !strings.Contains(field, "~") && len(fieldOrder) == 1 {
		names.Set(fieldOrder[0], contactName)
	}
	return names
}

// orderedDistinct returns the distinct members of remotes, ordered by their position in preferred
// first and by first appearance in remotes after that.
func orderedDistinct(remotes, preferred []string) []string {
	members := sets.NewString(remotes...)
	seen := sets.NewString()
	ordered := make([]string, 0, members.Len())
	for _, list := range [][]string{preferred, remotes} {
		for _, number := range list {
			if members.Has(number) && !seen.Has(number) {
				seen.Insert(number)
				ordered = append(ordered, number)
			}
		}
	}
	return ordered
}
