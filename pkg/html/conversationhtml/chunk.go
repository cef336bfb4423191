package conversationhtml

import (
	"strings"
)

// Chunk is an independently loadable run of whole months. Number starts at 1.
type Chunk struct {
	Number int
	Months []string
	HTML   string
}

// splitChunks packs months greedily, newest first, starting a new chunk whenever the next month would
// push the current one past limit. A month is never split, so a single month larger than limit becomes
// a chunk of its own.
func splitChunks(months []MonthFragment, limit int) []Chunk {
	var chunks []Chunk
	var labels []string
	sb := &strings.Builder{}

	flush := func() {
		if len(labels) == 0 {
			return
		}
		chunks = append(chunks, Chunk{
			Number: len(chunks) + 1,
			Months: labels,
			HTML:   sb.String(),
		})
		labels = nil
		sb = &strings.Builder{}
	}

	for _, month := range months {
		if len(labels) > 0 && sb.Len()+len(month.HTML) > limit {
			flush()
		}
		sb.WriteString(month.HTML)
		labels = append(labels, month.Label)
	}
	flush()

	return chunks
}
