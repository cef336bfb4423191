package conversationhtml

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/pkg/errors"

	messagesv1 "github.com/openshift/smsxml2html/pkg/apis/messages/v1"
	"github.com/openshift/smsxml2html/pkg/html/generichtml"
)

// Fragment is one data file. Loading it in the entry page assigns its markup to a window global the
// client script reads by conversation id.
type Fragment struct {
	Name    string
	Slot    string
	Content []byte
}

var fragmentTemplate = template.Must(template.New("fragment").Parse("window.{{ .slot }} = {{ .literal }};\n"))

func SingleFileName(id string) string {
	return fmt.Sprintf("conv_%s.js", id)
}

func HeaderFileName(id string) string {
	return fmt.Sprintf("conv_%s_header.js", id)
}

func ChunkFileName(id string, number int) string {
	return fmt.Sprintf("conv_%s_chunk%d.js", id, number)
}

// Fragments returns the data files of the conversation: one combined file, or a header file followed
// by the chunk files in order.
func (rc *RenderedConversation) Fragments() ([]Fragment, error) {
	if !rc.IsChunked() {
		f, err := newFragment(SingleFileName(rc.ID), "convData_"+rc.ID, rc.Full())
		if err != nil {
			return nil, err
		}
		return []Fragment{f}, nil
	}

	fragments := make([]Fragment, 0, len(rc.Chunks)+1)
	header, err := newFragment(HeaderFileName(rc.ID), "convHeader_"+rc.ID, rc.Header)
	if err != nil {
		return nil, err
	}
	fragments = append(fragments, header)

	for _, chunk := range rc.Chunks {
		f, err := newFragment(ChunkFileName(rc.ID, chunk.Number), fmt.Sprintf("convChunk_%s_%d", rc.ID, chunk.Number), chunk.HTML)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, f)
	}
	return fragments, nil
}

func newFragment(name, slot, markup string) (Fragment, error) {
	literal, err := jsStringLiteral(markup)
	if err != nil {
		return Fragment{}, errors.Wrapf(err, "could not encode %s", name)
	}
	content := generichtml.MustSubstitute(fragmentTemplate, map[string]string{
		"slot":    slot,
		"literal": literal,
	})
	return Fragment{Name: name, Slot: slot, Content: []byte(content)}, nil
}

// jsStringLiteral encodes s as a JSON string, which is also a valid JavaScript string literal. HTML
// characters are kept as they are since the value is assigned to innerHTML.
func jsStringLiteral(s string) (string, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// Metadata describes where the client script finds the conversation's data files.
func (rc *RenderedConversation) Metadata() messagesv1.ConversationMetadata {
	conv := rc.Conversation
	participants := conv.Participants
	if participants == nil {
		participants = []string{}
	}
	summary := messagesv1.ConversationSummary{
		ID:           rc.ID,
		Name:         conv.DisplayName,
		Participants: participants,
		MessageCount: len(conv.Messages),
		LatestDate:   conv.LatestTimestamp(),
	}

	if !rc.IsChunked() {
		return messagesv1.NewSingleMetadata(summary, SingleFileName(rc.ID))
	}

	chunked := messagesv1.ChunkedFragments{
		HeaderFile:  HeaderFileName(rc.ID),
		ChunkMonths: map[int][]string{},
	}
	for _, chunk := range rc.Chunks {
		chunked.ChunkFiles = append(chunked.ChunkFiles, ChunkFileName(rc.ID, chunk.Number))
		chunked.ChunkMonths[chunk.Number] = chunk.Months
	}
	return messagesv1.NewChunkedMetadata(summary, chunked)
}
