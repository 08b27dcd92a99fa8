// Package script produces and prepares narration text: turning raw content
// into a spoken-language script through the text-generation collaborator,
// and splitting scripts into sentence units for synthesis.
package script

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/textgen"
)

// Model output shorter than this is treated as a generation failure rather
// than a usable script.
const minScriptLength = 40

type Writer struct {
	gen textgen.Generator
	log *zap.SugaredLogger
}

func NewWriter(gen textgen.Generator, log *zap.SugaredLogger) *Writer {
	return &Writer{gen: gen, log: log}
}

// Narration transforms raw content into a spoken script in the requested
// language.
func (w *Writer) Narration(ctx context.Context, content, language string) (string, error) {
	prompt := fmt.Sprintf(
		"You are a professional scriptwriter for news and documentary videos. "+
			"Transform the following press release or news content into an engaging, "+
			"informative narration suitable for a video presentation.\n\n"+
			"Requirements:\n"+
			"- Natural, conversational narration style\n"+
			"- Maintain journalistic integrity and factual accuracy\n"+
			"- Write in %s language\n"+
			"- Clear, professional language suitable for news broadcasting\n"+
			"- Clear beginning, middle, and end\n"+
			"- Length: 30-45 seconds when spoken\n\n"+
			"Output ONLY the narration text. No stage directions, no labels, no commentary.\n\n"+
			"CONTENT:\n%s",
		language, content)

	raw, err := w.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate narration: %w", err)
	}
	return w.clean(raw)
}

// Improve rewrites a script without running the video pipeline. styleHints
// is optional.
func (w *Writer) Improve(ctx context.Context, content, language, styleHints string) (string, error) {
	prompt := fmt.Sprintf(
		"Rewrite the following text as a polished video narration in %s language. "+
			"Keep every fact intact and improve the flow for spoken delivery.\n",
		language)
	if styleHints != "" {
		prompt += fmt.Sprintf("Style guidance: %s\n", styleHints)
	}
	prompt += fmt.Sprintf("\nOutput ONLY the narration text.\n\nTEXT:\n%s", content)

	raw, err := w.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("improve script: %w", err)
	}
	return w.clean(raw)
}

// clean strips markdown leftovers the model tends to emit and rejects
// output too short to narrate.
func (w *Writer) clean(raw string) (string, error) {
	s := strings.NewReplacer("*", "", "#", "").Replace(raw)
	s = strings.TrimSpace(s)
	if len(s) < minScriptLength {
		w.log.Warnw("model produced unusably short script", "length", len(s))
		return "", fmt.Errorf("model output too short to narrate (%d chars)", len(s))
	}
	return s, nil
}
