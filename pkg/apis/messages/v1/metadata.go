package v1

import (
	"encoding/json"
	"fmt"
)

// ConversationSummary holds the fields every entry of the page metadata table carries.
type ConversationSummary struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Participants []string `json:"participants"`
	MessageCount int      `json:"msg_count"`
	LatestDate   int64    `json:"latest_date"`
}

// SingleFragment describes a conversation stored in one data file.
type SingleFragment struct {
	JSFile string `json:"js_file"`
}

// ChunkedFragments describes a conversation split into a header file and ordered chunk files.
// ChunkMonths maps a 1-based chunk number to the month labels rendered in that chunk.
type ChunkedFragments struct {
	HeaderFile  string           `json:"header_file"`
	ChunkFiles  []string         `json:"chunk_files"`
	ChunkMonths map[int][]string `json:"chunk_months"`
}

// ConversationMetadata is one entry of the metadata table embedded in the entry page. Exactly one of
// Single and Chunked is set; the JSON form flattens both with a "chunked" discriminator, which is the
// shape the client script reads.
type ConversationMetadata struct {
	ConversationSummary
	Single  *SingleFragment
	Chunked *ChunkedFragments
}

func NewSingleMetadata(summary ConversationSummary, jsFile string) ConversationMetadata {
	return ConversationMetadata{
		ConversationSummary: summary,
		Single:              &SingleFragment{JSFile: jsFile},
	}
}

func NewChunkedMetadata(summary ConversationSummary, chunked ChunkedFragments) ConversationMetadata {
	return ConversationMetadata{
		ConversationSummary: summary,
		Chunked:             &chunked,
	}
}

func (m ConversationMetadata) IsChunked() bool {
	return m.Chunked != nil
}

type singleMetadataJSON struct {
	ConversationSummary
	IsChunked bool `json:"chunked"`
	SingleFragment
}

type chunkedMetadataJSON struct {
	ConversationSummary
	IsChunked bool `json:"chunked"`
	ChunkedFragments
}

func (m ConversationMetadata) MarshalJSON() ([]byte, error) {
	switch {
	case m.Single != nil && m.Chunked != nil:
		return nil, fmt.Errorf("conversation %s has both single and chunked fragments", m.ID)
	case m.Chunked != nil:
		return json.Marshal(chunkedMetadataJSON{ConversationSummary: m.ConversationSummary, IsChunked: true, ChunkedFragments: *m.Chunked})
	case m.Single != nil:
		return json.Marshal(singleMetadataJSON{ConversationSummary: m.ConversationSummary, SingleFragment: *m.Single})
	default:
		return nil, fmt.Errorf("conversation %s has no fragments", m.ID)
	}
}

func (m *ConversationMetadata) UnmarshalJSON(data []byte) error {
	var discriminator struct {
		IsChunked *bool `json:"chunked"`
	}
	if err := json.Unmarshal(data, &discriminator); err != nil {
		return err
	}
	if discriminator.IsChunked == nil {
		return fmt.Errorf("conversation metadata is missing the chunked field")
	}

	if *discriminator.IsChunked {
		var raw chunkedMetadataJSON
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*m = NewChunkedMetadata(raw.ConversationSummary, raw.ChunkedFragments)
		return nil
	}

	var raw singleMetadataJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = NewSingleMetadata(raw.ConversationSummary, raw.JSFile)
	return nil
}
