package htmltesthelpers

import (
	"time"

	messagesv1 "github.com/openshift/smsxml2html/pkg/apis/messages/v1"
)

// OwnerNumber is the device owner used by every fixture.
const OwnerNumber = "15551230000"

// Millis converts a UTC wall clock time into a backup timestamp.
func Millis(year int, month time.Month, day, hour, minute int) int64 {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC).UnixMilli()
}

func ReceivedSMS(ts int64, from, name, body string) *messagesv1.Message {
	return &messagesv1.Message{
		Kind:          messagesv1.KindSMS,
		Timestamp:     ts,
		Body:          body,
		Type:          messagesv1.TypeReceivedSMS,
		SenderAddress: from,
		SenderName:    name,
	}
}

func SentSMS(ts int64, body string) *messagesv1.Message {
	return &messagesv1.Message{
		Kind:          messagesv1.KindSMS,
		Timestamp:     ts,
		Body:          body,
		Type:          messagesv1.TypeSentSMS,
		SenderAddress: OwnerNumber,
		SenderName:    messagesv1.OwnerName,
	}
}

func ReceivedMMS(ts int64, from, name, body string, images ...messagesv1.Image) *messagesv1.Message {
	return &messagesv1.Message{
		Kind:          messagesv1.KindMMS,
		Timestamp:     ts,
		Body:          body,
		Type:          messagesv1.TypeReceivedMMS,
		SenderAddress: from,
		SenderName:    name,
		Images:        images,
	}
}

// GetConversation builds a conversation holding msgs.
func GetConversation(key, name string, participants []string, msgs ...*messagesv1.Message) *messagesv1.Conversation {
	conv := messagesv1.NewConversation(key, name, participants)
	for _, msg := range msgs {
		conv.Messages[msg.Timestamp] = msg
	}
	return conv
}

// GetTwoPartyConversation is a conversation with Alice spanning three months.
func GetTwoPartyConversation() *messagesv1.Conversation {
	alice := "15551234567"
	return GetConversation(alice, "Alice", []string{alice},
		ReceivedSMS(Millis(2024, time.January, 3, 9, 15), alice, "Alice", "happy new year"),
		SentSMS(Millis(2024, time.January, 3, 9, 20), "you too & more"),
		ReceivedSMS(Millis(2023, time.December, 24, 18, 0), alice, "Alice", "see you <soon>"),
		ReceivedMMS(Millis(2023, time.November, 2, 12, 30), alice, "Alice", "photo",
			messagesv1.Image{MIMEType: "image/jpeg", DataURI: "data:image/jpeg;base64,AAAA"}),
	)
}

// GetGroupConversation is a group with Bob and Carol in a single month.
func GetGroupConversation() *messagesv1.Conversation {
	bob, carol := "15559876543", "15550001111"
	conv := GetConversation(carol+"~"+bob, "Bob, Carol", []string{bob, carol},
		ReceivedMMS(Millis(2023, time.October, 5, 8, 0), bob, "Bob", "hi all"),
		ReceivedMMS(Millis(2023, time.October, 5, 8, 5), carol, "Carol", "hey"),
	)
	conv.ContactMap[bob] = "Bob"
	conv.ContactMap[carol] = "Carol"
	return conv
}
