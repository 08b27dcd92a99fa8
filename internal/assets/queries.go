// Package assets finds and prepares the background imagery for a video:
// search-query planning, stock photo fetching and placeholder generation.
package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/textgen"
)

type QuerySource string

const (
	QuerySourceModel     QuerySource = "model"
	QuerySourceHeuristic QuerySource = "heuristic"
)

// QueryPlan is the list of image search terms for one script, tagged with
// how it was produced.
type QueryPlan struct {
	Terms  []string
	Source QuerySource
}

const (
	minModelTerms = 5
	maxQueryTerms = 8
	backfillCount = 7
)

var jsonArrayRe = regexp.MustCompile(`(?s)\[.*\]`)

// Planner derives image search queries from a script, asking the language
// model first and falling back to keyword heuristics.
type Planner struct {
	gen textgen.Generator
	log *zap.SugaredLogger
}

func NewPlanner(gen textgen.Generator, log *zap.SugaredLogger) *Planner {
	return &Planner{gen: gen, log: log}
}

// Plan returns search terms for the given script.
func (p *Planner) Plan(ctx context.Context, content string) QueryPlan {
	if p.gen != nil {
		if terms, err := p.modelTerms(ctx, content); err == nil {
			return QueryPlan{Terms: terms, Source: QuerySourceModel}
		} else {
			p.log.Warnw("model query planning failed, using heuristics", "err", err)
		}
	}
	return QueryPlan{Terms: HeuristicTerms(content), Source: QuerySourceHeuristic}
}

func (p *Planner) modelTerms(ctx context.Context, content string) ([]string, error) {
	prompt := fmt.Sprintf(`Given the following news script, produce %d to %d short, concrete stock photo search queries that visually match its subject matter.
Respond with ONLY a JSON array of strings, no other text.

Script:
%s`, minModelTerms, maxQueryTerms, content)

	raw, err := p.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	match := jsonArrayRe.FindString(raw)
	if match == "" {
		return nil, fmt.Errorf("no JSON array in model response")
	}

	var candidates []string
	if err := json.Unmarshal([]byte(match), &candidates); err != nil {
		return nil, fmt.Errorf("parse query array: %w", err)
	}

	terms := dedupe(candidates, maxQueryTerms)
	if len(terms) < minModelTerms {
		return nil, fmt.Errorf("model returned %d usable queries, need %d", len(terms), minModelTerms)
	}
	return terms, nil
}

var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "of": true, "for": true,
	"with": true, "by": true, "from": true, "as": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "has": true, "have": true,
	"had": true, "it": true, "its": true, "this": true, "that": true, "these": true,
	"those": true, "they": true, "their": true, "will": true, "would": true,
	"can": true, "could": true, "not": true, "no": true, "he": true, "she": true,
	"we": true, "you": true, "his": true, "her": true, "our": true, "also": true,
	"more": true, "into": true, "over": true, "after": true, "about": true,
}

var topicTerms = map[string]string{
	"economy":    "stock market trading floor",
	"market":     "stock market trading floor",
	"election":   "voting ballot box",
	"government": "government building columns",
	"climate":    "climate change landscape",
	"weather":    "storm clouds sky",
	"technology": "technology circuit board",
	"health":     "hospital medical care",
	"sports":     "stadium sports crowd",
	"war":        "military conflict aftermath",
	"space":      "space rocket launch",
	"education":  "university campus students",
	"crime":      "police car lights",
	"energy":     "power plant energy",
	"travel":     "airport travelers terminal",
}

// HeuristicTerms builds search queries from the script text alone:
// topic-mapped terms, frequent keywords, keyword bigrams, then generic
// news imagery to fill out the list.
func HeuristicTerms(content string) []string {
	words := strings.Fields(strings.ToLower(nonLetterRe.ReplaceAllString(content, " ")))

	counts := map[string]int{}
	var order []string
	for _, w := range words {
		if len(w) < 4 || stopwords[w] {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	var terms []string
	for _, w := range order {
		if mapped, ok := topicTerms[w]; ok {
			terms = append(terms, mapped)
		}
	}

	// Most frequent keywords, ties broken by first appearance.
	keywords := append([]string(nil), order...)
	sort.SliceStable(keywords, func(i, j int) bool {
		return counts[keywords[i]] > counts[keywords[j]]
	})
	for i, w := range keywords {
		if i >= 4 {
			break
		}
		terms = append(terms, w)
	}
	for i := 0; i+1 < len(keywords) && i < 3; i++ {
		terms = append(terms, keywords[i]+" "+keywords[i+1])
	}

	generic := []string{
		"breaking news studio", "city skyline aerial", "newspaper press printing",
		"crowd people street", "world map globe", "microphone press conference",
		"television news camera",
	}
	for _, g := range generic {
		if len(terms) >= backfillCount {
			break
		}
		terms = append(terms, g)
	}

	return dedupe(terms, maxQueryTerms)
}

var nonLetterRe = regexp.MustCompile(`[^a-zA-Z]+`)

func dedupe(in []string, limit int) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
		if len(out) >= limit {
			break
		}
	}
	return out
}
