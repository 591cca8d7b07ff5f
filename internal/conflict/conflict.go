package conflict

import "strings"

// Marker delimits individual conflicts inside an upstream 409 message.
const Marker = "•"

// Details is the structured form of a multi-conflict message.
type Details struct {
	Summary   string
	Conflicts []string
}

// Parse splits a raw 409 message on the bullet marker. The part before the
// first marker becomes the summary, each following part one conflict line.
// A message without markers is all summary.
func Parse(msg string) Details {
	parts := strings.Split(msg, Marker)

	d := Details{Summary: strings.TrimSpace(parts[0])}

	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d.Conflicts = append(d.Conflicts, part)
	}

	return d
}

// String renders the details as a leading summary line followed by one
// bulleted line per conflict.
func (d Details) String() string {
	if len(d.Conflicts) == 0 {
		return d.Summary
	}

	var b strings.Builder
	b.WriteString(d.Summary)
	for _, c := range d.Conflicts {
		b.WriteString("\n")
		b.WriteString(Marker)
		b.WriteString(" ")
		b.WriteString(c)
	}

	return b.String()
}

// Reformat is the one-shot form: raw upstream message in, display text out.
func Reformat(msg string) string {
	return Parse(msg).String()
}
