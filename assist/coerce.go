package assist

import (
	"encoding/json"
	"regexp"
	"strings"
)

// The generative API is asked for strict JSON but routinely wraps its
// output in markdown fences or prose. These helpers strip the wrapping and
// pull out the first JSON array or object before decoding.

var (
	openFence  = regexp.MustCompile("(?i)^```(json)?")
	closeFence = regexp.MustCompile("(?i)```$")
	arrayShape = regexp.MustCompile(`\[[\s\S]*\]`)
	objShape   = regexp.MustCompile(`\{[\s\S]*\}`)
)

func stripFences(text string) string {
	t := strings.TrimSpace(text)
	t = openFence.ReplaceAllString(t, "")
	t = closeFence.ReplaceAllString(t, "")
	return strings.TrimSpace(t)
}

// DecodeArray decodes the first JSON array found in the text into out.
func DecodeArray(text string, out any) error {
	t := stripFences(text)
	if err := json.Unmarshal([]byte(t), out); err == nil {
		return nil
	}
	if match := arrayShape.FindString(t); match != "" {
		if err := json.Unmarshal([]byte(match), out); err == nil {
			return nil
		}
	}
	return ErrUpstream
}

// DecodeObject decodes the first JSON object found in the text into out.
func DecodeObject(text string, out any) error {
	t := stripFences(text)
	if err := json.Unmarshal([]byte(t), out); err == nil {
		return nil
	}
	if match := objShape.FindString(t); match != "" {
		if err := json.Unmarshal([]byte(match), out); err == nil {
			return nil
		}
	}
	return ErrUpstream
}

// clamp truncates s to at most n bytes.
func clamp(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
