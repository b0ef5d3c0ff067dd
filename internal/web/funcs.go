package web

import (
	"fmt"
	"html/template"
	"path"
	"regexp"
	"time"
)

var tagRe = regexp.MustCompile(`<[^>]+>`)

// HasHTML reports whether s contains something that looks like a markup tag.
// It only flags content; output is escaped regardless.
func HasHTML(s string) bool {
	return s != "" && tagRe.MatchString(s)
}

// FormatAverage renders an average rating, or "No ratings" when there is none.
func FormatAverage(avg *float64) string {
	if avg == nil {
		return "No ratings"
	}
	return fmt.Sprintf("%.1f", *avg)
}

func seq(n int) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func mediaURL(rel *string) string {
	if rel == nil || *rel == "" {
		return ""
	}
	return path.Join("/media", *rel)
}

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"stars":    starsOf,
		"seq":      seq,
		"hasHTML":  HasHTML,
		"avg":      FormatAverage,
		"mediaURL": mediaURL,
		"date": func(t time.Time) string {
			return t.Format("Jan 2, 2006 15:04")
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}
}
