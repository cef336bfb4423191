package backup

// Attribute values used by SMS Backup & Restore exports.
const (
	// DefaultSMSType is assumed for sms records without a type attribute.
	DefaultSMSType = "1"

	MsgBoxReceived = "1"
	MsgBoxSent     = "2"

	// AddrTypeFrom marks the originating address of an mms record (PDU header FROM).
	AddrTypeFrom = "137"
	// AddrTypeTo marks a recipient address (PDU header TO).
	AddrTypeTo = "151"
)

// SMS is a text message record.
type SMS struct {
	Address     string
	Date        int64
	Type        string
	ContactName string
	Body        string
}

// Part is one content part of an mms record. Data holds base64 payloads for media parts, Text holds
// literal text for text parts.
type Part struct {
	ContentType string
	Data        string
	Text        string
}

// Addr is one address entry of an mms record; Type is the PDU role code.
type Addr struct {
	Address string
	Type    string
}

// MMS is a multimedia message record. Address is the raw '~' separated address attribute whose order
// matches the comma separated ContactName.
type MMS struct {
	Date        int64
	MsgBox      string
	Address     string
	ContactName string
	Parts       []Part
	Addrs       []Addr
}

// Handler receives every record in document order.
type Handler interface {
	HandleSMS(SMS) error
	HandleMMS(MMS) error
}

// Stats counts the records read from one document.
type Stats struct {
	SMS int
	MMS int
}

func (s Stats) Total() int {
	return s.SMS + s.MMS
}
