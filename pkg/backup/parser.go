package backup

import (
	"encoding/xml"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/transform"
)

var (
	ErrInputNotFound      = errors.New("input file not found")
	ErrMissingAttribute   = errors.New("missing required attribute")
	ErrMalformedAttribute = errors.New("malformed attribute")
)

// ParseFile streams the backup at path into h.
func ParseFile(path string, h Handler) (Stats, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Stats{}, errors.Wrap(ErrInputNotFound, path)
	} else if err != nil {
		return Stats{}, errors.Wrapf(err, "could not open %s", path)
	}
	defer f.Close()

	stats, err := Parse(f, h)
	if err != nil {
		return stats, errors.WithMessagef(err, "could not parse %s", path)
	}
	return stats, nil
}

// Parse reads sms and mms records one at a time from r and hands each to h. Only the record being
// handled is held in memory; its attributes become garbage as soon as h returns.
func Parse(r io.Reader, h Handler) (Stats, error) {
	var stats Stats

	d := xml.NewDecoder(transform.NewReader(r, surrogatePairs{}))
	// Exports use HTML entities such as &nbsp; in bodies that are never declared.
	d.Strict = false

	for {
		offset := d.InputOffset()
		tok, err := d.Token()
		if err == io.EOF {
			return stats, nil
		} else if err != nil {
			return stats, errors.Wrap(err, "could not read backup document")
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "sms":
			sms, err := decodeSMS(start)
			if err != nil {
				return stats, errors.WithMessagef(err, "sms record at offset %d", offset)
			}
			if err := d.Skip(); err != nil {
				return stats, errors.Wrapf(err, "sms record at offset %d", offset)
			}
			stats.SMS++
			if err := h.HandleSMS(sms); err != nil {
				return stats, err
			}
		case "mms":
			mms, err := decodeMMS(d, start)
			if err != nil {
				return stats, errors.WithMessagef(err, "mms record at offset %d", offset)
			}
			stats.MMS++
			if err := h.HandleMMS(mms); err != nil {
				return stats, err
			}
		}
	}
}

func decodeSMS(start xml.StartElement) (SMS, error) {
	address, ok := attr(start, "address")
	if !ok || address == "" {
		return SMS{}, errors.Wrap(ErrMissingAttribute, "address")
	}
	date, err := dateAttr(start)
	if err != nil {
		return SMS{}, err
	}

	smsType, ok := attr(start, "type")
	if !ok || smsType == "" {
		smsType = DefaultSMSType
	}
	contactName, _ := attr(start, "contact_name")
	body, _ := attr(start, "body")

	return SMS{
		Address:     address,
		Date:        date,
		Type:        smsType,
		ContactName: contactName,
		Body:        body,
	}, nil
}

// decodeMMS consumes the mms element through its end tag, collecting parts and addresses at any
// depth.
func decodeMMS(d *xml.Decoder, start xml.StartElement) (MMS, error) {
	date, err := dateAttr(start)
	if err != nil {
		return MMS{}, err
	}

	msgBox, ok := attr(start, "msg_box")
	if !ok || msgBox == "" {
		msgBox = MsgBoxReceived
	}
	address, _ := attr(start, "address")
	contactName, _ := attr(start, "contact_name")

	mms := MMS{
		Date:        date,
		MsgBox:      msgBox,
		Address:     address,
		ContactName: contactName,
	}

	for depth := 1; depth > 0; {
		tok, err := d.Token()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return MMS{}, errors.Wrap(err, "could not read mms record")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "part":
				ct, ok := attr(t, "ct")
				if !ok || ct == "" {
					return MMS{}, errors.Wrap(ErrMissingAttribute, "part ct")
				}
				data, _ := attr(t, "data")
				text, _ := attr(t, "text")
				mms.Parts = append(mms.Parts, Part{ContentType: ct, Data: data, Text: text})
			case "addr":
				addr, _ := attr(t, "address")
				if addr == "" {
					log.WithField("date", date).Debug("skipping mms addr entry without an address")
					continue
				}
				addrType, ok := attr(t, "type")
				if !ok || addrType == "" {
					addrType = AddrTypeFrom
				}
				mms.Addrs = append(mms.Addrs, Addr{Address: addr, Type: addrType})
			}
		case xml.EndElement:
			depth--
		}
	}

	return mms, nil
}

func dateAttr(start xml.StartElement) (int64, error) {
	raw, ok := attr(start, "date")
	if !ok || raw == "" {
		return 0, errors.Wrap(ErrMissingAttribute, "date")
	}
	date, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedAttribute, "date %q", raw)
	}
	return date, nil
}

func attr(start xml.StartElement, name string) (string, bool) {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}
