package conversation

import (
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/sets"

	messagesv1 "github.com/openshift/smsxml2html/pkg/apis/messages/v1"
	"github.com/openshift/smsxml2html/pkg/backup"
	"github.com/openshift/smsxml2html/pkg/identity"
)

// KeySeparator joins participant numbers in group keys.
const KeySeparator = "~"

// unnamedGroup is used when a group's first record carries no contact names.
const unnamedGroup = "Unknown"

// GroupKey joins the distinct addresses in sorted order, so any permutation of the same participants
// produces the same key.
func GroupKey(addresses []string) string {
	return strings.Join(sets.NewString(addresses...).List(), KeySeparator)
}

// Key identifies the conversation of a record with the given distinct remote participants. A single
// participant keys a two-party conversation by that number, which is also how text records are keyed.
func Key(remotes []string) string {
	if len(remotes) == 1 {
		return remotes[0]
	}
	return GroupKey(remotes)
}

// Aggregator buckets resolved records into conversations. It implements backup.Handler so the parser
// can feed it directly. The contact map it owns grows with every record and is read by the resolver
// for later ones.
type Aggregator struct {
	resolver      *identity.Resolver
	contacts      identity.ContactMap
	conversations map[string]*messagesv1.Conversation
	typeCounts    map[string]int
	droppedMedia  map[string]int
	messages      int
}

// NewAggregator starts an aggregation pass. contacts seeds the global contact map and may be nil.
func NewAggregator(ownerNumber string, contacts identity.ContactMap) *Aggregator {
	if contacts == nil {
		contacts = identity.NewContactMap()
	}
	return &Aggregator{
		resolver:      identity.NewResolver(ownerNumber, contacts),
		contacts:      contacts,
		conversations: map[string]*messagesv1.Conversation{},
		typeCounts:    map[string]int{},
		droppedMedia:  map[string]int{},
	}
}

func (a *Aggregator) HandleSMS(sms backup.SMS) error {
	a.Add(a.resolver.ResolveSMS(sms))
	return nil
}

func (a *Aggregator) HandleMMS(mms backup.MMS) error {
	a.Add(a.resolver.ResolveMMS(mms))
	return nil
}

// Add files a resolved record under its conversation, creating the conversation on first sight. The
// display name is chosen only at creation; later records only add to the conversation contact map.
// A record at a timestamp already present replaces the earlier one.
func (a *Aggregator) Add(resolved identity.Resolved) {
	a.contacts.Merge(resolved.Names)

	key := Key(resolved.Remotes)
	conv, ok := a.conversations[key]
	if !ok {
		conv = messagesv1.NewConversation(key, a.displayName(resolved), append([]string(nil), resolved.Remotes...))
		a.conversations[key] = conv
		log.WithFields(log.Fields{"key": key, "name": conv.DisplayName}).Debug("new conversation")
	}
	for number, name := range resolved.Names {
		conv.ContactMap[number] = name
	}

	msg := resolved.Message
	if _, exists := conv.Messages[msg.Timestamp]; exists {
		log.WithFields(log.Fields{"key": key, "timestamp": msg.Timestamp}).Debug("replacing message with identical timestamp")
	}
	conv.Messages[msg.Timestamp] = msg

	a.messages++
	a.typeCounts[msg.Type]++
	for _, mimeType := range resolved.DroppedMedia {
		a.droppedMedia[mimeType]++
	}
}

func (a *Aggregator) displayName(resolved identity.Resolved) string {
	if len(resolved.Remotes) == 1 {
		return identity.NameFor(resolved.Remotes[0], a.contacts)
	}
	if identity.IsUnknownName(resolved.ContactName) {
		return unnamedGroup
	}
	return resolved.ContactName
}

// Conversations returns every conversation, most recent message first. Ties are ordered by key.
func (a *Aggregator) Conversations() []*messagesv1.Conversation {
	convs := make([]*messagesv1.Conversation, 0, len(a.conversations))
	for _, conv := range a.conversations {
		convs = append(convs, conv)
	}
	sort.Slice(convs, func(i, j int) bool {
		li, lj := convs[i].LatestTimestamp(), convs[j].LatestTimestamp()
		if li != lj {
			return li > lj
		}
		return convs[i].Key < convs[j].Key
	})
	return convs
}

// Conversation looks up a conversation by key.
func (a *Aggregator) Conversation(key string) (*messagesv1.Conversation, bool) {
	conv, ok := a.conversations[key]
	return conv, ok
}

// ContactMap is the global contact map. It should be treated as read-only once aggregation is done.
func (a *Aggregator) ContactMap() identity.ContactMap {
	return a.contacts
}

// MessageCount is the number of records added, including ones that replaced an earlier message.
func (a *Aggregator) MessageCount() int {
	return a.messages
}

// TypeCounts counts added records by their direction code.
func (a *Aggregator) TypeCounts() map[string]int {
	return a.typeCounts
}

// DroppedMedia counts image parts that were not embedded, by content type.
func (a *Aggregator) DroppedMedia() map[string]int {
	return a.droppedMedia
}
