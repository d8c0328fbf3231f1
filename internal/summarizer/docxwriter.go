package summarizer

import (
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet  = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	reNumberd = regexp.MustCompile(`^\d+\.\s+(.+)$`)
)

// transcript paragraphs are cut near this many runes, at a sentence end
const transcriptParaRunes = 500

var reSentenceEnd = regexp.MustCompile(`[.!?。！？]\s*`)

// WriteMarkdownDocx renders LLM markdown notes as a styled docx file.
func WriteMarkdownDocx(title, markdown, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			addStyledRun(doc.AddParagraph(""), m[2], true, headingSize(len(m[1])))
			continue
		}

		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			addRichText(doc.AddParagraph(""), "• "+m[1])
			continue
		}

		if reNumberd.MatchString(trimmed) {
			addRichText(doc.AddParagraph(""), trimmed)
			continue
		}

		addRichText(doc.AddParagraph(""), trimmed)
	}

	return doc.SaveTo(outputPath)
}

// WriteTranscriptDocx writes a plain transcript as a docx file, breaking
// the text into readable paragraphs at sentence boundaries.
func WriteTranscriptDocx(title, transcript, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)
	doc.AddParagraph("")

	for _, para := range splitTranscript(transcript) {
		p := doc.AddParagraph("")
		p.AddText(para).Font(fontName).Size(fontSize).Color("000000")
	}

	return doc.SaveTo(outputPath)
}

// splitTranscript cuts flowing transcript text into paragraphs. Existing
// blank lines are respected; beyond that, paragraphs close at the first
// sentence end past the size target.
func splitTranscript(text string) []string {
	var paras []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(strings.ReplaceAll(block, "\n", " "))
		if block == "" {
			continue
		}
		paras = append(paras, splitBlock(block)...)
	}
	return paras
}

func splitBlock(block string) []string {
	var paras []string
	remaining := block
	for len([]rune(remaining)) > transcriptParaRunes {
		runes := []rune(remaining)
		head := string(runes[:transcriptParaRunes])
		tail := string(runes[transcriptParaRunes:])

		loc := reSentenceEnd.FindStringIndex(tail)
		if loc == nil {
			break
		}
		paras = append(paras, strings.TrimSpace(head+tail[:loc[1]]))
		remaining = tail[loc[1]:]
	}
	if r := strings.TrimSpace(remaining); r != "" {
		paras = append(paras, r)
	}
	return paras
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	text = cleanMarkdownInline(text)
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			clean := cleanMarkdownInline(part)
			p.AddText(clean).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			clean := cleanMarkdownInline(matches[i][1])
			p.AddText(clean).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
