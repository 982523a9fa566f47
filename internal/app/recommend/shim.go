package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/digital-guild/guild/internal/domain"
	"github.com/digital-guild/guild/internal/infra/metrics"
)

// FallbackConfidence and FallbackReason are returned whenever the reply
// cannot be parsed. Parse failures are recoverable degradation, never an
// error.
const (
	FallbackConfidence = 0.5
	FallbackReason     = "parsing failed"
)

// Match is one scored (job, worker) pair.
type Match struct {
	Confidence float64
	Reason     string
}

// Score runs one generation call for the pair and parses the reply.
// Generation-call failures propagate; parse failures degrade to the
// fallback match.
func Score(ctx context.Context, g Generator, job domain.Job, worker domain.Worker, skillNames []string) (Match, error) {
	prompt := buildPrompt(job, worker, skillNames, time.Now().UTC())

	start := time.Now()
	reply, err := g.Generate(ctx, prompt)
	metrics.GenerationLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return Match{}, err
	}

	return parseReply(reply), nil
}

// matchingSkills returns the intersection of job tags and skill names,
// case-insensitive, preserving the tag order. Informational context for
// the prompt only — it does not feed the confidence directly.
func matchingSkills(tags, skillNames []string) []string {
	var out []string
	for _, tag := range tags {
		for _, name := range skillNames {
			if strings.EqualFold(tag, name) {
				out = append(out, tag)
				break
			}
		}
	}
	return out
}

// buildPrompt embeds job and worker attributes in a natural-language
// prompt asking for a JSON verdict.
func buildPrompt(job domain.Job, worker domain.Worker, skillNames []string, now time.Time) string {
	var b strings.Builder
	b.WriteString("You are matching gig workers to jobs.\n\n")
	fmt.Fprintf(&b, "Job: %s\n", job.Title)
	fmt.Fprintf(&b, "Description: %s\n", job.Description)
	fmt.Fprintf(&b, "Location: %s\n", job.Location)
	fmt.Fprintf(&b, "Required tags: %s\n\n", strings.Join(job.Tags, ", "))
	fmt.Fprintf(&b, "Worker: %s, age %d, %s\n", worker.Name, worker.Age(now), worker.Address)
	fmt.Fprintf(&b, "Worker skills: %s\n", strings.Join(skillNames, ", "))
	if matched := matchingSkills(job.Tags, skillNames); len(matched) > 0 {
		fmt.Fprintf(&b, "Matching skills: %s\n", strings.Join(matched, ", "))
	}
	b.WriteString("\nReply with a JSON object: " +
		`{"confidence": <number between 0 and 1>, "reason": "<one sentence>"}`)
	return b.String()
}

// parseReply extracts the first brace-delimited JSON substring from the
// raw reply and reads confidence and reason from it. Anything that does
// not yield a numeric confidence falls back to (0.5, "parsing failed").
// Confidence is clamped to [0,1] regardless of what the model returned.
func parseReply(raw string) Match {
	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first < 0 || last <= first {
		metrics.ParseFallbacks.Inc()
		return Match{Confidence: FallbackConfidence, Reason: FallbackReason}
	}

	var parsed struct {
		Confidence *float64 `json:"confidence"`
		Reason     string   `json:"reason"`
	}
	if err := json.Unmarshal([]byte(raw[first:last+1]), &parsed); err != nil || parsed.Confidence == nil {
		metrics.ParseFallbacks.Inc()
		return Match{Confidence: FallbackConfidence, Reason: FallbackReason}
	}

	conf := *parsed.Confidence
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	return Match{Confidence: conf, Reason: parsed.Reason}
}
