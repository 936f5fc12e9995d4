package analysis

import (
	"bufio"
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"regexp"
	"strings"
)

var (
	datePattern   = regexp.MustCompile(`\b\d{1,2}[-/]\d{1,2}[-/]\d{2,4}\b`)
	amountPattern = regexp.MustCompile(`[$€£]\s?\d+(?:,\d{3})*(?:\.\d{2})?`)
	urgentTerms   = []string{"urgent", "critical", "asap", "immediately", "emergency"}
	actionMarkers = []string{"please", "action required", "kindly", "must", "need to"}
	negativeTerms = []string{"down", "outage", "failed", "broken", "complaint", "unacceptable", "problem"}
	positiveTerms = []string{"thank", "great", "appreciate", "pleased", "excellent"}
)

// EmailAnalyzer parses RFC 5322 messages and analyzes their body.
type EmailAnalyzer struct {
	enrich enricher
}

type parsedEmail struct {
	from, to, subject, date string
	body                    string
	parts                   int
	attachments             int
}

// Analyze reads headers and the first text/plain body part, then derives
// tone, urgency, entities, and action items from the body.
func (a *EmailAnalyzer) Analyze(ctx context.Context, in Input) (map[string]any, error) {
	msg := parseEmail(in.Text)

	metadata := map[string]any{
		"from":            msg.from,
		"to":              msg.to,
		"subject":         msg.subject,
		"date":            msg.date,
		"has_attachments": msg.attachments > 0 || msg.parts > 1,
	}

	heuristic := emailHeuristics(msg.subject, msg.body)
	prompt := "Analyze this email. Respond with one JSON object with keys " +
		`tone (formal|informal|urgent|neutral), urgency (high|medium|low), ` +
		`entities {people, organizations, dates, amounts}, action_items, sentiment (positive|negative|neutral), key_topics.` +
		"\n\nSubject: " + msg.subject + "\n\n" + excerpt(msg.body, promptLimit)

	return map[string]any{
		"status":      StatusSuccess,
		"source":      "email_analysis",
		"metadata":    metadata,
		"analysis":    a.enrich.analyze(ctx, prompt, heuristic),
		"raw_content": msg.body,
	}, nil
}

func parseEmail(text string) parsedEmail {
	m, err := mail.ReadMessage(strings.NewReader(text))
	if err != nil {
		return parsedEmail{body: text}
	}

	dec := new(mime.WordDecoder)
	header := func(key string) string {
		v := m.Header.Get(key)
		if decoded, err := dec.DecodeHeader(v); err == nil {
			return decoded
		}
		return v
	}

	out := parsedEmail{
		from:    header("From"),
		to:      header("To"),
		subject: header("Subject"),
		date:    header("Date"),
	}

	mediaType, params, err := mime.ParseMediaType(m.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		body, _ := io.ReadAll(m.Body)
		out.body = string(body)
		return out
	}

	mr := multipart.NewReader(m.Body, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err != nil {
			break
		}
		out.parts++

		if part.FileName() != "" {
			out.attachments++
		}

		ct, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if out.body == "" && (ct == "" || ct == "text/plain") && part.FileName() == "" {
			data, _ := io.ReadAll(part)
			out.body = string(data)
		}
		part.Close()
	}
	return out
}

func emailHeuristics(subject, body string) map[string]any {
	lower := strings.ToLower(subject + "\n" + body)

	urgency := "medium"
	tone := "neutral"
	if containsAny(lower, urgentTerms) {
		urgency = "high"
		tone = "urgent"
	} else if strings.Contains(lower, "dear") || strings.Contains(lower, "regards") {
		tone = "formal"
	}

	sentiment := "neutral"
	switch {
	case containsAny(lower, negativeTerms):
		sentiment = "negative"
	case containsAny(lower, positiveTerms):
		sentiment = "positive"
	}

	out := map[string]any{
		"tone":      tone,
		"urgency":   urgency,
		"sentiment": sentiment,
		"entities": map[string]any{
			"people":        []string{},
			"organizations": []string{},
			"dates":         nonNil(datePattern.FindAllString(body, -1)),
			"amounts":       nonNil(amountPattern.FindAllString(body, -1)),
		},
		"action_items": actionItems(body),
		"key_topics":   []string{},
	}
	if urgency == "high" && subject != "" {
		out["message"] = subject
	}
	return out
}

func actionItems(body string) []string {
	items := []string{}
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" && containsAny(strings.ToLower(line), actionMarkers) {
			items = append(items, line)
		}
	}
	return items
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
