package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	messagesv1 "github.com/openshift/smsxml2html/pkg/apis/messages/v1"
	"github.com/openshift/smsxml2html/pkg/backup"
)

const owner = "15551230000"

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{raw: "5551234567", expected: "15551234567"},
		{raw: "(555) 123-4567", expected: "15551234567"},
		{raw: "+1 555 123 4567", expected: "15551234567"},
		{raw: "15551234567", expected: "15551234567"},
		{raw: "+44 20 7183 8750", expected: "442071838750"},
		{raw: "12345", expected: "12345"},
		{raw: "abc", expected: ""},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			normalized := NormalizeNumber(tc.raw)
			assert.Equal(t, tc.expected, normalized)
			assert.Equal(t, normalized, NormalizeNumber(normalized), "normalization must be idempotent")
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		number string
		full   string
		simple string
	}{
		{number: "15551234567", full: "(555) 123-4567", simple: "555-123-4567"},
		{number: "5551234567", full: "(555) 123-4567", simple: "555-123-4567"},
		{number: "442071838750", full: "+44 20 7183 8750", simple: "442071838750"},
		{number: "12345", full: "12345", simple: "12345"},
		{number: "", full: "", simple: ""},
	}

	for _, tc := range tests {
		t.Run(tc.number, func(t *testing.T) {
			assert.Equal(t, tc.full, FormatNumber(tc.number))
			assert.Equal(t, tc.simple, FormatNumberSimple(tc.number))
		})
	}
}

func TestNameHelpers(t *testing.T) {
	assert.True(t, IsUnknownName(""))
	assert.True(t, IsUnknownName("(Unknown)"))
	assert.True(t, IsUnknownName("Unknown"))
	assert.False(t, IsUnknownName("Alice"))

	assert.True(t, LooksLikeNumber("(555) 123-4567"))
	assert.True(t, LooksLikeNumber("+44 20 7183 8750"))
	assert.False(t, LooksLikeNumber("Alice"))
	assert.False(t, LooksLikeNumber("  "))
}

func TestContactMap(t *testing.T) {
	contacts := NewContactMap()
	contacts.Set("15551234567", "Alice")
	contacts.Set("15559876543", "(Unknown)")
	contacts.Set("", "Nobody")

	name, ok := contacts.Get("15551234567")
	assert.True(t, ok)
	assert.Equal(t, "Alice", name)
	_, ok = contacts.Get("15559876543")
	assert.False(t, ok)
	assert.Len(t, contacts, 1)

	clone := contacts.Clone()
	clone.Set("15551234567", "Alicia")
	assert.Equal(t, "Alice", contacts["15551234567"])

	contacts.Merge(ContactMap{"15559876543": "Bob", "15551234567": "Al"})
	assert.Equal(t, ContactMap{"15551234567": "Al", "15559876543": "Bob"}, contacts)

	assert.Equal(t, "Bob", NameFor("15559876543", NewContactMap(), contacts))
	assert.Equal(t, "(555) 000-1111", NameFor("15550001111", contacts))
}

func TestNormalizeImageType(t *testing.T) {
	tests := []struct {
		contentType string
		expected    string
		ok          bool
	}{
		{contentType: "image/jpg", expected: "image/jpeg", ok: true},
		{contentType: "IMAGE/PNG", expected: "image/png", ok: true},
		{contentType: "image/jpeg; name=photo.jpg", expected: "image/jpeg", ok: true},
		{contentType: "image/vnd.microsoft.icon", expected: "image/x-icon", ok: true},
		{contentType: "image/svg+xml", expected: "image/svg+xml", ok: true},
		{contentType: "image/heic", ok: false},
		{contentType: "application/pdf", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.contentType, func(t *testing.T) {
			normalized, ok := NormalizeImageType(tc.contentType)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, normalized)
		})
	}
}

func TestResolveSMS(t *testing.T) {
	t.Run("received without a contact name", func(t *testing.T) {
		r := NewResolver(owner, nil)
		resolved := r.ResolveSMS(backup.SMS{Address: "5551234567", Date: 1000, Type: "1", ContactName: "(Unknown)", Body: "hi"})

		msg := resolved.Message
		assert.Equal(t, "15551234567", msg.SenderAddress)
		assert.Equal(t, "(555) 123-4567", msg.SenderName)
		assert.Equal(t, "hi", msg.Body)
		assert.Equal(t, messagesv1.KindSMS, msg.Kind)
		assert.Equal(t, []string{"15551234567"}, resolved.Remotes)
		assert.Empty(t, resolved.Names)
	})

	t.Run("received with a name learned earlier", func(t *testing.T) {
		r := NewResolver(owner, ContactMap{"15551234567": "Alice"})
		resolved := r.ResolveSMS(backup.SMS{Address: "5551234567", Date: 1000, Type: "1"})
		assert.Equal(t, "Alice", resolved.Message.SenderName)
	})

	t.Run("record name wins", func(t *testing.T) {
		r := NewResolver(owner, ContactMap{"15551234567": "Alice"})
		resolved := r.ResolveSMS(backup.SMS{Address: "5551234567", Date: 1000, Type: "1", ContactName: "Alice Smith"})
		assert.Equal(t, "Alice Smith", resolved.Message.SenderName)
		assert.Equal(t, ContactMap{"15551234567": "Alice Smith"}, resolved.Names)
	})

	t.Run("sent", func(t *testing.T) {
		r := NewResolver("555-123-0000", nil)
		resolved := r.ResolveSMS(backup.SMS{Address: "5551234567", Date: 1000, Type: "2", ContactName: "Alice"})
		assert.Equal(t, owner, resolved.Message.SenderAddress)
		assert.Equal(t, "You", resolved.Message.SenderName)
		assert.True(t, resolved.Message.IsSent())
	})
}

func TestResolveMMSSentGroup(t *testing.T) {
	r := NewResolver(owner, nil)
	resolved := r.ResolveMMS(backup.MMS{
		Date:        2000,
		MsgBox:      "2",
		Address:     "5559876543~5551230000~5551234567",
		ContactName: "Bob, Alice",
		Parts:       []backup.Part{{ContentType: "text/plain", Text: "hello all"}},
		Addrs: []backup.Addr{
			{Address: "5551230000", Type: "137"},
			{Address: "5551234567", Type: "151"},
			{Address: "5559876543", Type: "151"},
		},
	})

	msg := resolved.Message
	assert.Equal(t, messagesv1.TypeSentMMS, msg.Type)
	assert.Equal(t, owner, msg.SenderAddress)
	assert.Equal(t, "You", msg.SenderName)
	assert.Equal(t, "hello all", msg.Body)
	assert.Equal(t, []string{"15559876543", "15551234567"}, resolved.Remotes)
	assert.Equal(t, ContactMap{"15559876543": "Bob", "15551234567": "Alice"}, resolved.Names)
}

func TestResolveMMSReceived(t *testing.T) {
	t.Run("originator address", func(t *testing.T) {
		r := NewResolver(owner, nil)
		resolved := r.ResolveMMS(backup.MMS{
			Date:        3000,
			MsgBox:      "1",
			Address:     "5551234567~5559876543",
			ContactName: "Alice, Bob",
			Addrs: []backup.Addr{
				{Address: "5551230000", Type: "151"},
				{Address: "5559876543", Type: "137"},
				{Address: "5551234567", Type: "151"},
			},
		})
		assert.Equal(t, messagesv1.TypeReceivedMMS, resolved.Message.Type)
		assert.Equal(t, "15559876543", resolved.Message.SenderAddress)
		assert.Equal(t, "Bob", resolved.Message.SenderName)
		assert.Equal(t, []string{"15551234567", "15559876543"}, resolved.Remotes)
	})

	t.Run("first address without an originator", func(t *testing.T) {
		r := NewResolver(owner, ContactMap{"15551234567": "Alice"})
		resolved := r.ResolveMMS(backup.MMS{
			Date:   3000,
			MsgBox: "1",
			Addrs:  []backup.Addr{{Address: "5551234567", Type: "151"}},
		})
		assert.Equal(t, "15551234567", resolved.Message.SenderAddress)
		assert.Equal(t, "Alice", resolved.Message.SenderName)
	})

	t.Run("single name maps to single address", func(t *testing.T) {
		r := NewResolver(owner, nil)
		resolved := r.ResolveMMS(backup.MMS{
			Date:        3000,
			MsgBox:      "1",
			Address:     "+1 555 123 4567",
			ContactName: "Alice Smith",
			Addrs:       []backup.Addr{{Address: "5551234567", Type: "137"}},
		})
		assert.Equal(t, ContactMap{"15551234567": "Alice Smith"}, resolved.Names)
		assert.Equal(t, "Alice Smith", resolved.Message.SenderName)
	})

	t.Run("more names than addresses", func(t *testing.T) {
		r := NewResolver(owner, nil)
		resolved := r.ResolveMMS(backup.MMS{
			Date:        3000,
			Address:     "5551234567",
			ContactName: "Alice, Bob, Carol",
			Addrs:       []backup.Addr{{Address: "5551234567", Type: "137"}},
		})
		assert.Equal(t, ContactMap{"15551234567": "Alice"}, resolved.Names)
	})

	t.Run("no addresses at all", func(t *testing.T) {
		r := NewResolver(owner, nil)
		resolved := r.ResolveMMS(backup.MMS{Date: 3000, MsgBox: "1", ContactName: "Unknown"})
		assert.Empty(t, resolved.Message.SenderAddress)
		assert.Equal(t, "Unknown", resolved.Message.SenderName)
		assert.Empty(t, resolved.Remotes)
	})

	t.Run("address field used when no addr entries", func(t *testing.T) {
		r := NewResolver(owner, nil)
		resolved := r.ResolveMMS(backup.MMS{Date: 3000, MsgBox: "1", Address: "5551234567~5551230000"})
		assert.Equal(t, []string{"15551234567"}, resolved.Remotes)
		assert.Equal(t, "15551234567", resolved.Message.SenderAddress)
	})
}

func TestResolveMMSMedia(t *testing.T) {
	r := NewResolver(owner, nil)

	t.Run("jpg is normalized", func(t *testing.T) {
		resolved := r.ResolveMMS(backup.MMS{
			Date: 4000,
			Parts: []backup.Part{
				{ContentType: "image/jpg", Data: "AAAA"},
				{ContentType: "text/plain", Text: "caption"},
			},
			Addrs: []backup.Addr{{Address: "5551234567"}},
		})
		require.Len(t, resolved.Message.Images, 1)
		assert.Equal(t, "image/jpeg", resolved.Message.Images[0].MIMEType)
		assert.Equal(t, "data:image/jpeg;base64,AAAA", resolved.Message.Images[0].DataURI)
		assert.Equal(t, "caption", resolved.Message.Body)
		assert.Empty(t, resolved.DroppedMedia)
	})

	t.Run("pdf is dropped", func(t *testing.T) {
		resolved := r.ResolveMMS(backup.MMS{
			Date: 4000,
			Parts: []backup.Part{
				{ContentType: "application/pdf", Data: "JVBERi0="},
				{ContentType: "text/plain", Text: "see attached"},
			},
			Addrs: []backup.Addr{{Address: "5551234567"}},
		})
		assert.Empty(t, resolved.Message.Images)
		assert.Equal(t, "see attached", resolved.Message.Body)
	})

	t.Run("unsupported image is dropped and reported", func(t *testing.T) {
		resolved := r.ResolveMMS(backup.MMS{
			Date:  4000,
			Parts: []backup.Part{{ContentType: "image/heic", Data: "AAAA"}},
			Addrs: []backup.Addr{{Address: "5551234567"}},
		})
		assert.Empty(t, resolved.Message.Images)
		assert.Equal(t, []string{"image/heic"}, resolved.DroppedMedia)
	})

	t.Run("text parts concatenate in order", func(t *testing.T) {
		resolved := r.ResolveMMS(backup.MMS{
			Date: 4000,
			Parts: []backup.Part{
				{ContentType: "application/smil", Text: "<smil/>"},
				{ContentType: "text/plain", Text: "one "},
				{ContentType: "image/png"},
				{ContentType: "text/plain", Text: "two"},
			},
			Addrs: []backup.Addr{{Address: "5551234567"}},
		})
		assert.Equal(t, "one two", resolved.Message.Body)
		assert.Empty(t, resolved.Message.Images)
	})
}
