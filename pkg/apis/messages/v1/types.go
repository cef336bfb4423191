package v1

import (
	"sort"
)

// Type codes found in SMS Backup & Restore exports. SMS records carry them in the "type" attribute;
// MMS records are mapped onto the PDU header values according to their message box.
const (
	TypeReceivedSMS        = "1"
	TypeSentSMS            = "2"
	TypeReceivedMMSSpecial = "130"
	TypeReceivedMMS        = "137"
	TypeSentMMS            = "151"
)

// TypeNames are the human readable names used when reporting the type distribution of a run.
var TypeNames = map[string]string{
	TypeReceivedSMS:        "Received SMS",
	TypeSentSMS:            "Sent SMS",
	TypeReceivedMMSSpecial: "Received MMS (special)",
	TypeReceivedMMS:        "Received MMS",
	TypeSentMMS:            "Sent MMS",
}

// OwnerName is the sender name of every message sent from the device the backup came from.
const OwnerName = "You"

type Kind string

const (
	KindSMS Kind = "sms"
	KindMMS Kind = "mms"
)

// Image is an inline media payload stored as a data URI.
type Image struct {
	MIMEType string
	DataURI  string
}

type Message struct {
	Kind      Kind
	Timestamp int64
	Body      string
	// Type is the raw direction code, see the Type* constants.
	Type          string
	SenderAddress string
	SenderName    string
	Images        []Image
}

// IsSent reports whether the message was sent by the device owner.
func (m *Message) IsSent() bool {
	return m.Type == TypeSentSMS || m.Type == TypeSentMMS
}

// IsReceived reports whether the message was received from a remote participant.
func (m *Message) IsReceived() bool {
	switch m.Type {
	case TypeReceivedSMS, TypeReceivedMMS, TypeReceivedMMSSpecial:
		return true
	}
	return false
}

// Conversation is a bucket of messages sharing one participant set.
type Conversation struct {
	// Key is a single normalized number for two-party conversations, or the sorted '~' joined
	// numbers of every remote participant for groups.
	Key string
	// DisplayName is chosen when the conversation is first created and never re-derived.
	DisplayName string
	// Participants excludes the owner and keeps the address order of the first record.
	Participants []string
	// Messages is keyed by timestamp; a later record with the same timestamp replaces the earlier one.
	Messages   map[int64]*Message
	ContactMap map[string]string
}

func NewConversation(key, displayName string, participants []string) *Conversation {
	return &Conversation{
		Key:          key,
		DisplayName:  displayName,
		Participants: participants,
		Messages:     map[int64]*Message{},
		ContactMap:   map[string]string{},
	}
}

func (c *Conversation) IsGroup() bool {
	return len(c.Participants) > 1
}

// LatestTimestamp returns the timestamp of the most recent message, or 0 for an empty conversation.
func (c *Conversation) LatestTimestamp() int64 {
	var latest int64
	for ts := range c.Messages {
		if ts > latest {
			latest = ts
		}
	}
	return latest
}

// TimestampsNewestFirst returns the message keys sorted descending.
func (c *Conversation) TimestampsNewestFirst() []int64 {
	timestamps := make([]int64, 0, len(c.Messages))
	for ts := range c.Messages {
		timestamps = append(timestamps, ts)
	}
	sort.Slice(timestamps, func(i, j int) bool {
		return timestamps[i] > timestamps[j]
	})
	return timestamps
}
