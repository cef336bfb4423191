package conversation

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	messagesv1 "github.com/openshift/smsxml2html/pkg/apis/messages/v1"
	"github.com/openshift/smsxml2html/pkg/backup"
	"github.com/openshift/smsxml2html/pkg/identity"
)

const owner = "15551230000"

func TestGroupKeyIsOrderIndependent(t *testing.T) {
	participants := []string{"15551234567", "15559876543", "15550001111"}
	expected := "15550001111~15551234567~15559876543"

	permutations := [][]string{
		{participants[0], participants[1], participants[2]},
		{participants[0], participants[2], participants[1]},
		{participants[1], participants[0], participants[2]},
		{participants[1], participants[2], participants[0]},
		{participants[2], participants[0], participants[1]},
		{participants[2], participants[1], participants[0]},
		{participants[2], participants[1], participants[0], participants[1]},
	}
	for _, p := range permutations {
		assert.Equal(t, expected, GroupKey(p), strings.Join(p, ","))
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "15551234567", Key([]string{"15551234567"}))
	assert.Equal(t, "15551234567~15559876543", Key([]string{"15559876543", "15551234567"}))
	assert.Equal(t, "", Key(nil))
}

func TestSMSOnlyScenario(t *testing.T) {
	a := NewAggregator(owner, nil)
	require.NoError(t, a.HandleSMS(backup.SMS{Address: "5551234567", Date: 1700000000000, Type: "1", Body: "hi"}))

	convs := a.Conversations()
	require.Len(t, convs, 1)

	expected := &messagesv1.Conversation{
		Key:          "15551234567",
		DisplayName:  "(555) 123-4567",
		Participants: []string{"15551234567"},
		Messages: map[int64]*messagesv1.Message{
			1700000000000: {
				Kind:          messagesv1.KindSMS,
				Timestamp:     1700000000000,
				Body:          "hi",
				Type:          "1",
				SenderAddress: "15551234567",
				SenderName:    "(555) 123-4567",
			},
		},
		ContactMap: map[string]string{},
	}
	if diff := cmp.Diff(expected, convs[0]); diff != "" {
		t.Errorf("unexpected conversation (-want +got):\n%s", diff)
	}
}

func TestTextAndMediaShareTwoPartyKey(t *testing.T) {
	a := NewAggregator(owner, nil)
	require.NoError(t, a.HandleSMS(backup.SMS{Address: "555-123-4567", Date: 1000, Type: "1", Body: "text"}))
	require.NoError(t, a.HandleMMS(backup.MMS{
		Date:    2000,
		MsgBox:  "1",
		Address: "5551234567",
		Addrs: []backup.Addr{
			{Address: "+15551234567", Type: "137"},
			{Address: "5551230000", Type: "151"},
		},
		Parts: []backup.Part{{ContentType: "image/png", Data: "AAAA"}},
	}))

	convs := a.Conversations()
	require.Len(t, convs, 1)
	assert.Equal(t, "15551234567", convs[0].Key)
	assert.Len(t, convs[0].Messages, 2)
	assert.False(t, convs[0].IsGroup())
}

func TestSentGroupScenario(t *testing.T) {
	a := NewAggregator(owner, nil)
	require.NoError(t, a.HandleMMS(backup.MMS{
		Date:        5000,
		MsgBox:      "2",
		Address:     "5559876543~5551230000~5551234567",
		ContactName: "Bob, Alice",
		Addrs: []backup.Addr{
			{Address: "5551230000", Type: "137"},
			{Address: "5559876543", Type: "151"},
			{Address: "5551234567", Type: "151"},
		},
		Parts: []backup.Part{{ContentType: "text/plain", Text: "dinner?"}},
	}))

	conv, ok := a.Conversation("15551234567~15559876543")
	require.True(t, ok)
	assert.Equal(t, "Bob, Alice", conv.DisplayName)
	assert.Equal(t, []string{"15559876543", "15551234567"}, conv.Participants)
	assert.NotContains(t, conv.Participants, owner)
	assert.True(t, conv.IsGroup())

	msg := conv.Messages[5000]
	require.NotNil(t, msg)
	assert.Equal(t, owner, msg.SenderAddress)
	assert.Equal(t, "You", msg.SenderName)
	assert.Equal(t, map[string]string{"15559876543": "Bob", "15551234567": "Alice"}, conv.ContactMap)
}

func TestGroupDiscoveredInDifferentOrders(t *testing.T) {
	a := NewAggregator(owner, nil)
	require.NoError(t, a.HandleMMS(backup.MMS{
		Date:  1,
		Addrs: []backup.Addr{{Address: "5551234567"}, {Address: "5559876543"}, {Address: "5550001111"}},
	}))
	require.NoError(t, a.HandleMMS(backup.MMS{
		Date:  2,
		Addrs: []backup.Addr{{Address: "5550001111"}, {Address: "5551234567"}, {Address: "5559876543"}},
	}))
	require.Len(t, a.Conversations(), 1)
	assert.Len(t, a.Conversations()[0].Messages, 2)
	assert.Equal(t, "Unknown", a.Conversations()[0].DisplayName)
}

func TestTimestampCollisionLastWriteWins(t *testing.T) {
	a := NewAggregator(owner, nil)
	require.NoError(t, a.HandleSMS(backup.SMS{Address: "5551234567", Date: 1000000000000, Type: "1", Body: "first"}))
	require.NoError(t, a.HandleSMS(backup.SMS{Address: "5551234567", Date: 1000000000000, Type: "1", Body: "second"}))

	convs := a.Conversations()
	require.Len(t, convs, 1)
	require.Len(t, convs[0].Messages, 1)
	assert.Equal(t, "second", convs[0].Messages[1000000000000].Body)
	assert.Equal(t, 2, a.MessageCount())
}

// The display name is fixed when the conversation is created. A name learned later updates the contact
// maps but does not rename the conversation or messages already filed.
func TestDisplayNameFixedAtCreation(t *testing.T) {
	a := NewAggregator(owner, nil)
	require.NoError(t, a.HandleSMS(backup.SMS{Address: "5551234567", Date: 1000, Type: "1", Body: "who is this"}))
	require.NoError(t, a.HandleSMS(backup.SMS{Address: "5551234567", Date: 2000, Type: "1", ContactName: "Alice", Body: "it's Alice"}))

	conv, ok := a.Conversation("15551234567")
	require.True(t, ok)
	assert.Equal(t, "(555) 123-4567", conv.DisplayName)
	assert.Equal(t, "(555) 123-4567", conv.Messages[1000].SenderName)
	assert.Equal(t, "Alice", conv.Messages[2000].SenderName)
	assert.Equal(t, "Alice", conv.ContactMap["15551234567"])
	assert.Equal(t, "Alice", a.ContactMap()["15551234567"])
}

func TestContactMapSeedsNames(t *testing.T) {
	a := NewAggregator(owner, identity.ContactMap{"15551234567": "Alice"})
	require.NoError(t, a.HandleSMS(backup.SMS{Address: "5551234567", Date: 1000, Type: "1"}))

	conv, ok := a.Conversation("15551234567")
	require.True(t, ok)
	assert.Equal(t, "Alice", conv.DisplayName)
	assert.Equal(t, "Alice", conv.Messages[1000].SenderName)
}

func TestConversationsMostRecentFirst(t *testing.T) {
	a := NewAggregator(owner, nil)
	for _, sms := range []backup.SMS{
		{Address: "5550000001", Date: 100, Type: "1"},
		{Address: "5550000002", Date: 300, Type: "2"},
		{Address: "5550000003", Date: 200, Type: "1"},
		{Address: "5550000004", Date: 300, Type: "1"},
	} {
		require.NoError(t, a.HandleSMS(sms))
	}

	var keys []string
	for _, conv := range a.Conversations() {
		keys = append(keys, conv.Key)
	}
	assert.Equal(t, []string{"15550000002", "15550000004", "15550000003", "15550000001"}, keys)
	assert.Equal(t, map[string]int{"1": 3, "2": 1}, a.TypeCounts())
}

func TestDroppedMediaCounted(t *testing.T) {
	a := NewAggregator(owner, nil)
	require.NoError(t, a.HandleMMS(backup.MMS{
		Date:  1,
		Addrs: []backup.Addr{{Address: "5551234567"}},
		Parts: []backup.Part{
			{ContentType: "image/heic", Data: "AAAA"},
			{ContentType: "image/heic", Data: "BBBB"},
			{ContentType: "image/jpg", Data: "CCCC"},
		},
	}))
	assert.Equal(t, map[string]int{"image/heic": 2}, a.DroppedMedia())
	assert.Equal(t, map[string]int{"137": 1}, a.TypeCounts())
}
