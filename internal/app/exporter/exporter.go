package exporter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/sleroq/wordpress-to-yaml/internal/domain/wordpress"
	"github.com/sleroq/wordpress-to-yaml/internal/infra/exportfs"
	"github.com/sleroq/wordpress-to-yaml/internal/infra/wxr"
	"github.com/sleroq/wordpress-to-yaml/internal/logging"
)

type Exporter struct {
	InputPath           string
	OutputPath          string
	PostTypes           []string
	ExcludeCustomFields []string
	ConvertToMarkdown   bool
	NotesDir            string
	FilenameEscaping    string
	Progress            bool
	Logger              logging.Logger
}

type Stats struct {
	Items          int
	Records        int
	Attachments    int
	DecodeWarnings int
	Galleries      int
	Thumbnails     int
	Unresolved     int
	Notes          int
	DroppedChars   int
}

type exportProgressBar struct {
	enabled         bool
	total           int64
	current         int64
	records         int
	lastRenderWidth int
	label           string
	bar             progress.Model
}

func newExportProgressBar(total int64, enabled bool) exportProgressBar {
	if total <= 0 {
		total = 1
	}
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 36

	if cols, err := strconv.Atoi(strings.TrimSpace(os.Getenv("COLUMNS"))); err == nil && cols > 0 {
		width := cols - 40
		if width < 16 {
			width = 16
		}
		if width > 64 {
			width = 64
		}
		bar.Width = width
	}

	return exportProgressBar{
		enabled: enabled && isTerminal(os.Stderr),
		total:   total,
		bar:     bar,
	}
}

// Advance records that the reader has consumed offset bytes and produced
// one more item.
func (p *exportProgressBar) Advance(offset int64, label string) {
	p.records++
	if !p.enabled {
		return
	}
	p.current = offset
	if p.current > p.total {
		p.current = p.total
	}
	p.label = label
	p.render()
}

func (p *exportProgressBar) Finish(label string) {
	if !p.enabled {
		return
	}
	p.current = p.total
	p.label = label
	p.render()
	fmt.Fprint(os.Stderr, "\n")
	p.lastRenderWidth = 0
}

func (p *exportProgressBar) Close() {
	if !p.enabled {
		return
	}
	if p.lastRenderWidth > 0 {
		fmt.Fprint(os.Stderr, "\n")
		p.lastRenderWidth = 0
	}
}

func (p *exportProgressBar) render() {
	percent := float64(p.current) / float64(p.total)
	if percent < 0 {
		percent = 0
	}
	if percent > 1 {
		percent = 1
	}
	line := fmt.Sprintf("%s %3.0f%% %d items %s", p.bar.ViewAs(percent), percent*100, p.records, strings.TrimSpace(p.label))
	pad := ""
	if p.lastRenderWidth > len(line) {
		pad = strings.Repeat(" ", p.lastRenderWidth-len(line))
	}
	fmt.Fprintf(os.Stderr, "\r%s%s", line, pad)
	p.lastRenderWidth = len(line)
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv("TERM")), "dumb") {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func (e Exporter) Run() (Stats, error) {
	if e.InputPath == "" || e.OutputPath == "" {
		return Stats{}, fmt.Errorf("input and output paths are required")
	}
	log := logging.OrNoOp(e.Logger)

	fields, err := wordpress.NewFieldFilter(e.ExcludeCustomFields)
	if err != nil {
		return Stats{}, err
	}
	types := wordpress.NewTypeFilter(e.PostTypes)

	filenameEscaping := ""
	if e.NotesDir != "" {
		filenameEscaping, err = resolveFilenameEscaping(e.FilenameEscaping)
		if err != nil {
			return Stats{}, err
		}
	}

	in, err := os.Open(e.InputPath)
	if err != nil {
		return Stats{}, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	var size int64
	if info, err := in.Stat(); err == nil {
		size = info.Size()
	}
	progressBar := newExportProgressBar(size, e.Progress)
	defer progressBar.Close()

	var stats Stats
	reader := wxr.NewReader(bufio.NewReader(in))
	readLog := log.Named("read")
	reader.OnIllegalChar(func(offset int64, c byte) {
		stats.DroppedChars++
		readLog.Warn("dropped illegal xml character", "offset", offset, "char", fmt.Sprintf("U+%04X", c))
	})

	x := newExtractor(fields, e.ConvertToMarkdown, log.Named("extract"))
	records, index, err := x.extractAll(reader, types, &progressBar)
	if err != nil {
		return Stats{}, err
	}
	stats.Items = x.items
	stats.Records = len(records)
	stats.Attachments = len(index)
	stats.DecodeWarnings = x.warnings

	report := wordpress.ResolveReferences(records, index)
	resolveLog := log.Named("resolve")
	for _, ref := range report.Unresolved {
		resolveLog.Debug("reference not resolved", "post_id", ref.RecordID, "field", ref.Field, "ref", ref.Ref)
	}
	stats.Galleries = report.Galleries
	stats.Thumbnails = report.Thumbnails
	stats.Unresolved = len(report.Unresolved)

	writeLog := log.Named("write")
	if err := exportfs.WriteFileAtomic(e.OutputPath, 0o644, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		if err := exportfs.EncodeRecords(bw, records); err != nil {
			return err
		}
		return bw.Flush()
	}); err != nil {
		return Stats{}, fmt.Errorf("write output: %w", err)
	}
	writeLog.Debug("wrote records", "path", e.OutputPath, "records", len(records))

	if e.NotesDir != "" {
		notes, err := exportNotes(e.NotesDir, records, filenameEscaping)
		if err != nil {
			return Stats{}, err
		}
		stats.Notes = notes
		writeLog.Debug("wrote notes", "dir", e.NotesDir, "notes", notes)
	}

	progressBar.Finish("done")

	log.Info("export finished",
		"records", stats.Records,
		"attachments", stats.Attachments,
		"decode_warnings", stats.DecodeWarnings,
		"dropped_chars", stats.DroppedChars,
		"unresolved", stats.Unresolved,
	)
	return stats, nil
}
