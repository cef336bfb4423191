package converter

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	messagesv1 "github.com/openshift/smsxml2html/pkg/apis/messages/v1"
	"github.com/openshift/smsxml2html/pkg/backup"
	"github.com/openshift/smsxml2html/pkg/conversation"
	"github.com/openshift/smsxml2html/pkg/html/conversationhtml"
	"github.com/openshift/smsxml2html/pkg/layout"
)

var ErrNoInput = errors.New("no input file could be read")

// Options configures one conversion.
type Options struct {
	// Inputs are backup files, merged into one archive named after the first one found.
	Inputs      []string
	OutputDir   string
	OwnerNumber string
	// ChunkSize defaults to conversationhtml.DefaultChunkSize.
	ChunkSize int
	// Location defaults to the local zone.
	Location *time.Location
	// Title defaults to the archive folder name.
	Title string
	// PushGateway, when set, receives the run metrics.
	PushGateway string
}

func (o Options) Validate() error {
	if len(o.Inputs) == 0 {
		return errors.New("at least one input file is required")
	}
	if o.OutputDir == "" {
		return errors.New("an output directory is required")
	}
	if o.OwnerNumber == "" {
		return errors.New("the owner phone number is required")
	}
	if o.ChunkSize < 0 {
		return errors.Errorf("chunk size must not be negative, got %d", o.ChunkSize)
	}
	return nil
}

// Result describes a finished archive.
type Result struct {
	// EntryPath is the entry page relative to OutputDir.
	EntryPath string
	OutputDir string
	// Dir is the archive folder.
	Dir           string
	Conversations int
	Messages      int
}

// Run converts the inputs into a new archive folder under the output directory.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	pusher := newMetricsPusher(opts.PushGateway)
	defer pusher.Push()

	if err := layout.EnsureOutputDir(opts.OutputDir); err != nil {
		return nil, err
	}

	agg, first, err := parseInputs(ctx, opts)
	if err != nil {
		return nil, err
	}
	runMetric.WithLabelValues("parse").Observe(float64(time.Since(start).Milliseconds()))

	convs := agg.Conversations()
	log.Infof("Parsed %d messages in %d conversations", agg.MessageCount(), len(convs))
	logTypeDistribution(agg.TypeCounts())
	for mimeType, count := range agg.DroppedMedia() {
		droppedMediaMetric.WithLabelValues(mimeType).Add(float64(count))
	}

	out, err := layout.Reserve(opts.OutputDir, first)
	if err != nil {
		return nil, err
	}

	renderStart := time.Now()
	if err := writeArchive(ctx, opts, out, agg, convs); err != nil {
		return nil, err
	}
	runMetric.WithLabelValues("render").Observe(float64(time.Since(renderStart).Milliseconds()))
	runMetric.WithLabelValues("total").Observe(float64(time.Since(start).Milliseconds()))

	log.Infof("conversion complete after %+v", time.Since(start))
	return &Result{
		EntryPath:     out.EntryPath(),
		OutputDir:     opts.OutputDir,
		Dir:           out.Dir(),
		Conversations: len(convs),
		Messages:      agg.MessageCount(),
	}, nil
}

// parseInputs feeds every readable input into one aggregator and returns the first input that was
// read. Missing files are skipped.
func parseInputs(ctx context.Context, opts Options) (*conversation.Aggregator, string, error) {
	agg := conversation.NewAggregator(opts.OwnerNumber, nil)

	var first string
	for _, input := range opts.Inputs {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		log.Infof("Parsing conversations from %s...", input)
		stats, err := backup.ParseFile(input, agg)
		if errors.Is(err, backup.ErrInputNotFound) {
			log.WithField("file", input).Warn("input file not found, skipping")
			continue
		} else if err != nil {
			return nil, "", err
		}

		if first == "" {
			first = input
		}
		recordsMetric.WithLabelValues(string(messagesv1.KindSMS)).Add(float64(stats.SMS))
		recordsMetric.WithLabelValues(string(messagesv1.KindMMS)).Add(float64(stats.MMS))
		log.WithFields(log.Fields{"file": input, "sms": stats.SMS, "mms": stats.MMS}).Infof("read %d records", stats.Total())
	}

	if first == "" {
		return nil, "", ErrNoInput
	}
	return agg, first, nil
}

func logTypeDistribution(counts map[string]int) {
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)

	log.Info("Message type distribution:")
	for _, t := range types {
		name, ok := messagesv1.TypeNames[t]
		if !ok {
			name = fmt.Sprintf("Unknown (%s)", t)
		}
		log.Infof("  Type %s (%s): %d messages", t, name, counts[t])
	}
}

func writeArchive(ctx context.Context, opts Options, out *layout.Layout, agg *conversation.Aggregator, convs []*messagesv1.Conversation) error {
	r := conversationhtml.NewRenderer(opts.OwnerNumber, agg.ContactMap())
	if opts.ChunkSize > 0 {
		r.ChunkSize = opts.ChunkSize
	}
	if opts.Location != nil {
		r.Location = opts.Location
	}

	page := conversationhtml.IndexPage{
		Title:   opts.Title,
		DataDir: layout.DataDirName,
		Entries: make([]conversationhtml.IndexEntry, 0, len(convs)),
	}
	if page.Title == "" {
		page.Title = out.Folder()
	}

	chunked := 0
	for _, conv := range convs {
		if err := ctx.Err(); err != nil {
			return err
		}

		rc := r.RenderConversation(conv)
		if rc.IsChunked() {
			chunked++
			log.WithFields(log.Fields{
				"name":   conv.DisplayName,
				"sizeMB": fmt.Sprintf("%.1f", float64(rc.Size())/1024/1024),
				"chunks": len(rc.Chunks),
			}).Info("Large conversation detected, splitting into chunks")
		}

		fragments, err := rc.Fragments()
		if err != nil {
			return errors.WithMessagef(err, "conversation %s", rc.ID)
		}
		for _, f := range fragments {
			if err := out.WriteFragment(f.Name, f.Content); err != nil {
				return err
			}
		}
		page.Entries = append(page.Entries, r.IndexEntry(rc))
	}
	conversationsMetric.WithLabelValues("single").Set(float64(len(convs) - chunked))
	conversationsMetric.WithLabelValues("chunked").Set(float64(chunked))

	return out.WriteEntryPage(func(w io.Writer) error {
		return conversationhtml.RenderIndex(w, page)
	})
}
